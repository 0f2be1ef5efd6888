// internal/workers/credit/calculate-credit-score/handler.go
package calculatecreditscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/metrics"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/validation"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const TaskType = "calculate-credit-score"

// Analyzer is the part of the scoring engine the worker needs.
type Analyzer interface {
	Analyze(ctx context.Context, sample scoring.Sample) (*scoring.Report, error)
}

type Handler struct {
	config       *Config
	analyzer     Analyzer
	sender       apperrors.CommandSender
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the job handler. sender delivers the complete and throw
// commands; nil sends each command once.
func NewHandler(config *Config, analyzer Analyzer, sender apperrors.CommandSender, log logger.Logger) *Handler {
	if sender == nil {
		sender = apperrors.SendOnce{}
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		analyzer:     analyzer,
		sender:       sender,
		errorHandler: apperrors.NewErrorHandler(sender, log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := ParseInput(job.Variables)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			err = h.completeJob(ctx, client, job, output)
			if err != nil {
				metrics.ObserveJob(TaskType, "COMPLETE_FAILED", time.Since(start))
				return err
			}
			metrics.ObserveJob(TaskType, "", time.Since(start))
			return nil
		}
	}

	bpmnErr, throwErr := h.errorHandler.HandleJobError(ctx, client, job, err)
	if throwErr != nil {
		metrics.ObserveJob(TaskType, "THROW_FAILED", time.Since(start))
		return throwErr
	}
	metrics.ObserveJob(TaskType, bpmnErr.Code, time.Since(start))
	return nil
}

// ParseInput decodes the job variables. A missing or empty financials object
// is an invalid payload.
func ParseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidPayloadError(fmt.Errorf("parse job variables: %w", err))
	}
	if len(input.Financials) == 0 {
		return nil, apperrors.NewInvalidPayloadError(fmt.Errorf("variable financials is missing or empty"))
	}
	return &input, nil
}

// Execute scores the financials of one job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	sample, err := validation.SampleFromMap(input.Financials)
	if err != nil {
		return nil, err
	}

	report, err := h.analyzer.Analyze(ctx, sample)
	if err != nil {
		return nil, err
	}

	h.logger.Info("credit score calculated", map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"score":            report.Score.Score,
		"category":         string(report.Score.Category),
		"recommendedLimit": report.Limit.RecommendedLimit,
	})

	return &Output{CreditAnalysis: report}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	err = h.sender.Send(ctx, "complete-job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}
