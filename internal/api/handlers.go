package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/metrics"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/observability"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/validation"
	"github.com/DWS-OmarMoreno/alfix-services/internal/models"
)

const entrypointHTTP = "http"

type handlers struct {
	analyzer  Analyzer
	readiness ReadinessChecker
	obs       *observability.Observability
	tracer    trace.Tracer
	logger    logger.Logger
	app       config.AppConfig
	maxBody   int64
}

func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	analysisID := uuid.NewString()
	w.Header().Set(AnalysisIDHeader, analysisID)

	start := time.Now()
	ctx, span := h.startSpan(r, "http.analysis", attribute.String("analysis.id", analysisID))
	defer span.End()

	outcome := metrics.OutcomeSuccess
	defer func() {
		if h.obs != nil {
			h.obs.RecordAnalysis(ctx, entrypointHTTP, outcome, time.Since(start))
		}
	}()

	fail := func(err error) {
		stdErr := apperrors.AsStandardError(err)
		outcome = string(stdErr.Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		h.writeError(w, r, analysisID, stdErr)
	}

	body, err := h.readBody(w, r)
	if err != nil {
		fail(err)
		return
	}

	sample, err := validation.ParseSample(body)
	if err != nil {
		fail(err)
		return
	}

	report, err := h.analyzer.Analyze(ctx, sample)
	if err != nil {
		fail(err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

func (h *handlers) startSpan(r *http.Request, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if h.obs != nil {
		return h.obs.StartSpan(r.Context(), name, attrs...)
	}
	return h.tracer.Start(r.Context(), name, trace.WithAttributes(attrs...))
}

func (h *handlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if h.maxBody > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewInvalidPayloadError(fmt.Errorf("body exceeds %d bytes", tooLarge.Limit))
		}
		return nil, apperrors.NewInvalidPayloadError(err)
	}
	return body, nil
}

// writeError renders the public side of err. Details stay in the log.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, analysisID string, stdErr *apperrors.StandardError) {
	fields := map[string]interface{}{
		"analysisId": analysisID,
		"errorCode":  string(stdErr.Code),
		"details":    stdErr.Details,
	}
	if stdErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("analysis request failed", fields)
	} else {
		h.logger.Info("analysis request rejected", fields)
	}

	render.Status(r, stdErr.HTTPStatus())
	render.JSON(w, r, models.ErrorResponse{
		Error:   stdErr.PublicMessage(),
		Code:    string(stdErr.Code),
		Missing: stdErr.MissingVariables(),
	})
}

// health never triggers a classifier load; it only reports whether one is held.
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    models.StatusOK,
		Service:   h.app.Name,
		Version:   h.app.Version,
		Timestamp: time.Now().UTC(),
	}
	if l, ok := h.readiness.(interface{ Loaded() bool }); ok {
		loaded := l.Loaded()
		resp.ModelLoaded = &loaded
	}
	render.JSON(w, r, resp)
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil {
		if err := h.readiness.Ready(r.Context()); err != nil {
			h.logger.WithError(err).Warn("readiness check failed", nil)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, models.ReadinessResponse{
				Status: models.StatusNotReady,
				Error:  apperrors.MsgModelUnavailable,
			})
			return
		}
	}
	render.JSON(w, r, models.ReadinessResponse{Status: models.StatusReady})
}
