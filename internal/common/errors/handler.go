// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CommandSender delivers one broker command, retrying it if it knows how.
type CommandSender interface {
	Send(ctx context.Context, operation string, send func(context.Context) error) error
}

// SendOnce delivers a command exactly once.
type SendOnce struct{}

func (SendOnce) Send(ctx context.Context, _ string, send func(context.Context) error) error {
	return send(ctx)
}

// ErrorHandler turns a failed scoring job into a thrown BPMN error. Scoring
// errors are never transient, so jobs are not failed back for retry.
type ErrorHandler struct {
	sender CommandSender
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(sender CommandSender, logger Logger) *ErrorHandler {
	if sender == nil {
		sender = SendOnce{}
	}
	return &ErrorHandler{sender: sender, logger: logger}
}

// HandleJobError normalises err and throws it as a BPMN error. The returned
// error is non-nil only when the throw command could not be delivered.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) (*BPMNError, error) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if sendErr := h.sender.Send(ctx, "throw-error", func(ctx context.Context) error {
		return h.throwError(ctx, client, job, bpmnErr)
	}); sendErr != nil {
		h.logger.Error("Failed to throw BPMN error", map[string]interface{}{
			"jobKey":        job.Key,
			"bpmnErrorCode": bpmnErr.Code,
			"error":         sendErr.Error(),
		})
		return bpmnErr, sendErr
	}
	return bpmnErr, nil
}

func (h *ErrorHandler) throwError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if payload, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(payload); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func encodeVariables(bpmnErr *BPMNError) (string, bool) {
	raw, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
