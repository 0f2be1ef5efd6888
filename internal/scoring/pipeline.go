package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/metrics"
)

// ErrClassifierUnavailable marks failures to obtain or reach the classifier.
var ErrClassifierUnavailable = errors.New("CLASSIFIER_UNAVAILABLE")

// Classifier estimates the probability of default of one sample.
type Classifier interface {
	PredictPD(ctx context.Context, sample Sample) (float64, error)
}

// ClassifierSource hands out the classifier, loading it on first use.
type ClassifierSource interface {
	Classifier(ctx context.Context) (Classifier, error)
}

// ScoreSummary is the score section of a report.
type ScoreSummary struct {
	Score    int      `json:"score"`
	Category Category `json:"categoria"`
	PD       float64  `json:"pd_estimada"`
	Raw      float64  `json:"score_raw"`
}

// Report is the complete analysis of one sample.
type Report struct {
	Score           ScoreSummary       `json:"score_calculado"`
	Limit           LimitResult        `json:"cupo_recomendado"`
	Variables       []VariableAnalysis `json:"analisis_variables"`
	Recommendations []Recommendation   `json:"recomendaciones"`
}

// Engine runs the full analysis. It holds only immutable tables and the
// injected classifier source, so one Engine serves concurrent callers.
type Engine struct {
	source      ClassifierSource
	catalog     *Catalog
	policy      LimitPolicy
	transformer ScoreTransformer
	logger      logger.Logger
	tracer      trace.Tracer
}

type EngineOption func(*Engine)

func WithLimitPolicy(p LimitPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

func WithTransformer(t ScoreTransformer) EngineOption {
	return func(e *Engine) { e.transformer = t }
}

func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine validates catalog and policy up front so that a bad reference
// table stops the process at startup instead of degrading responses.
func NewEngine(source ClassifierSource, catalog *Catalog, log logger.Logger, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		source:      source,
		catalog:     catalog,
		policy:      DefaultLimitPolicy(),
		transformer: NewScoreTransformer(),
		logger:      log.WithFields(map[string]interface{}{"component": "scoring-engine"}),
		tracer:      otel.Tracer("github.com/DWS-OmarMoreno/alfix-services/internal/scoring"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.catalog.Validate(); err != nil {
		return nil, err
	}
	if err := e.policy.Validate(); err != nil {
		return nil, err
	}
	if e.transformer.Factor <= 0 || math.IsNaN(e.transformer.Offset) {
		return nil, fmt.Errorf("score transformer requires a positive factor, got %v", e.transformer.Factor)
	}
	return e, nil
}

// Catalog returns the reference tables the engine was built with.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Analyze obtains a PD from the classifier and builds the report. Errors are
// always *apperrors.StandardError.
func (e *Engine) Analyze(ctx context.Context, sample Sample) (report *Report, err error) {
	ctx, span := e.tracer.Start(ctx, "scoring.Analyze")
	start := time.Now()
	defer func() {
		e.finish(span, start, report, err)
	}()

	if err := checkSample(sample); err != nil {
		return nil, err
	}

	clf, err := e.source.Classifier(ctx)
	if err != nil {
		return nil, apperrors.NewModelUnavailableError(err)
	}

	pd, err := e.predict(ctx, clf, sample)
	if err != nil {
		return nil, err
	}

	return e.build(ctx, sample, pd), nil
}

// AnalyzeWithPD builds the report for an externally supplied PD.
func (e *Engine) AnalyzeWithPD(ctx context.Context, sample Sample, pd float64) (*Report, error) {
	if err := checkSample(sample); err != nil {
		return nil, err
	}
	if math.IsNaN(pd) || math.IsInf(pd, 0) {
		return nil, apperrors.NewInternalComputationError(fmt.Errorf("probability of default %v is not finite", pd))
	}
	return e.build(ctx, sample, pd), nil
}

func (e *Engine) predict(ctx context.Context, clf Classifier, sample Sample) (float64, error) {
	ctx, span := e.tracer.Start(ctx, "scoring.PredictPD")
	defer span.End()

	pd, err := clf.PredictPD(ctx, sample)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrClassifierUnavailable) {
			return 0, apperrors.NewModelUnavailableError(err)
		}
		return 0, apperrors.NewInternalComputationError(err)
	}
	if math.IsNaN(pd) || math.IsInf(pd, 0) {
		return 0, apperrors.NewInternalComputationError(fmt.Errorf("classifier returned non-finite probability %v", pd))
	}
	span.SetAttributes(attribute.Float64("scoring.pd", pd))
	return pd, nil
}

func (e *Engine) build(ctx context.Context, sample Sample, pd float64) *Report {
	_, span := e.tracer.Start(ctx, "scoring.BuildReport")
	defer span.End()

	score := e.transformer.Score(pd)
	return &Report{
		Score: ScoreSummary{
			Score:    score.Final,
			Category: score.Category,
			PD:       pd,
			Raw:      score.Raw,
		},
		Limit:           e.policy.Calculate(sample, pd, score.Raw, score.Category),
		Variables:       AnalyzeVariables(sample, e.catalog),
		Recommendations: Recommend(sample, e.catalog),
	}
}

func (e *Engine) finish(span trace.Span, start time.Time, report *Report, err error) {
	defer span.End()
	elapsed := time.Since(start)

	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		metrics.RecordAnalysis(string(stdErr.Code), "", elapsed)
		fields := map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"elapsedMs": elapsed.Milliseconds(),
		}
		if apperrors.IsCode(err, apperrors.ErrCodeValidationFailed) {
			e.logger.Info("Credit analysis rejected", fields)
		} else {
			e.logger.Warn("Credit analysis failed", fields)
		}
		return
	}

	span.SetAttributes(
		attribute.Int("scoring.score", report.Score.Score),
		attribute.String("scoring.category", string(report.Score.Category)),
	)
	metrics.RecordAnalysis(metrics.OutcomeSuccess, string(report.Score.Category), elapsed)
	e.logger.Debug("Credit analysis completed", map[string]interface{}{
		"score":     report.Score.Score,
		"category":  string(report.Score.Category),
		"elapsedMs": elapsed.Milliseconds(),
	})
}

func checkSample(sample Sample) error {
	if missing := sample.Missing(); len(missing) > 0 {
		return apperrors.NewValidationError(VariableNames(missing))
	}
	for _, v := range Variables {
		if val := sample[v]; math.IsNaN(val) || math.IsInf(val, 0) {
			return apperrors.NewInternalComputationError(fmt.Errorf("variable %s is not finite", v))
		}
	}
	return nil
}
