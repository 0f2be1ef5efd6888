// Package api serves the credit analysis over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/observability"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

// AnalysisIDHeader carries the id generated for each analysis request.
const AnalysisIDHeader = "X-Analysis-ID"

type Analyzer interface {
	Analyze(ctx context.Context, sample scoring.Sample) (*scoring.Report, error)
}

// ReadinessChecker reports whether the classifier can be obtained.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Dependencies struct {
	Analyzer      Analyzer
	Readiness     ReadinessChecker
	Observability *observability.Observability
	Logger        logger.Logger
	App           config.AppConfig
	Server        config.ServerConfig
	Metrics       config.MetricsConfig
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// NewRouter builds the chi router with the analysis, health and metrics routes.
func NewRouter(deps Dependencies) http.Handler {
	h := &handlers{
		analyzer:  deps.Analyzer,
		readiness: deps.Readiness,
		obs:       deps.Observability,
		tracer:    otel.Tracer("github.com/DWS-OmarMoreno/alfix-services/internal/api"),
		logger:    deps.Logger.WithFields(map[string]interface{}{"component": "http-api"}),
		app:       deps.App,
		maxBody:   deps.Server.MaxBodyBytes,
	}

	if deps.Observability != nil {
		h.tracer = deps.Observability.Tracer()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{AnalysisIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/api_analysis", h.analyze)
		r.Post("/api/v1/analysis", h.analyze)
	})

	if deps.Metrics.Enabled {
		metricsHandler := deps.MetricsHandler
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Handle(deps.Metrics.Path, metricsHandler)
	}

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("http request", map[string]interface{}{
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"requestId":  middleware.GetReqID(r.Context()),
					"analysisId": ww.Header().Get(AnalysisIDHeader),
					"elapsedMs":  time.Since(start).Milliseconds(),
				})
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
