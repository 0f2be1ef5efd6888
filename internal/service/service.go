// Package service assembles the scoring engine, its classifier and the HTTP
// router from configuration.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/DWS-OmarMoreno/alfix-services/internal/api"
	"github.com/DWS-OmarMoreno/alfix-services/internal/catalog"
	"github.com/DWS-OmarMoreno/alfix-services/internal/classifier"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/database"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/observability"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const (
	ModelSourceArtifact = "artifact"
	ModelSourceRemote   = "remote"
)

type Service struct {
	Config        *config.Config
	Engine        *scoring.Engine
	Provider      *classifier.Provider
	Observability *observability.Observability
	Router        http.Handler

	closers []func() error
}

// Build wires every component described by cfg. reg receives the OTel
// meters; nil means the default prometheus registry.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, reg *prometheus.Registry) (*Service, error) {
	svc := &Service{Config: cfg}
	built := false
	defer func() {
		if !built {
			_ = svc.Close(context.Background())
		}
	}()

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler := promhttp.Handler()
	if reg != nil {
		registerer = reg
		metricsHandler = promhttp.HandlerFor(prometheus.Gatherers{reg, prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
	}

	obs, err := observability.New(cfg.App.Name, registerer)
	if err != nil {
		return nil, err
	}
	svc.Observability = obs
	svc.closers = append(svc.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return obs.Shutdown(ctx)
	})

	var db *sql.DB
	if cfg.Scoring.Catalog.Source == catalog.SourcePostgres {
		pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		svc.closers = append(svc.closers, pg.Close)
		db = pg.DB
	}

	cat, err := catalog.Load(ctx, cfg.Scoring.Catalog, db)
	if err != nil {
		return nil, fmt.Errorf("reference catalog: %w", err)
	}

	var rdb redis.Cmdable
	if cfg.Cache.Enabled {
		rc, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		svc.closers = append(svc.closers, rc.Close)
		rdb = rc.Client
	}

	clfLog := log.Named("classifier")
	loader, err := ClassifierLoader(cfg, rdb, clfLog)
	if err != nil {
		return nil, err
	}
	svc.Provider = classifier.NewProvider(loader, clfLog)

	policy, err := LimitPolicyFrom(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	engine, err := scoring.NewEngine(svc.Provider, cat, log.Named("scoring"),
		scoring.WithLimitPolicy(policy),
		scoring.WithTransformer(TransformerFrom(cfg.Scoring)),
		scoring.WithTracer(obs.Tracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}
	svc.Engine = engine

	svc.Router = api.NewRouter(api.Dependencies{
		Analyzer:       svc.Engine,
		Readiness:      svc.Provider,
		Observability:  obs,
		Logger:         log.Named("api"),
		App:            cfg.App,
		Server:         cfg.Server,
		Metrics:        cfg.Metrics,
		MetricsHandler: metricsHandler,
	})

	log.Info("Scoring service assembled", map[string]interface{}{
		"catalogSource": cfg.Scoring.Catalog.Source,
		"modelSource":   cfg.Model.Source,
		"cacheEnabled":  cfg.Cache.Enabled,
	})
	built = true
	return svc, nil
}

// Close releases connections in reverse order of acquisition.
func (s *Service) Close(context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// ClassifierLoader selects the model source and puts the redis cache in
// front of it when rdb is set.
func ClassifierLoader(cfg *config.Config, rdb redis.Cmdable, log logger.Logger) (classifier.Loader, error) {
	var load classifier.Loader
	switch cfg.Model.Source {
	case "", ModelSourceArtifact:
		load = classifier.ArtifactLoader(cfg.Model.ArtifactPath)
	case ModelSourceRemote:
		load = classifier.RemoteLoader(cfg.Model.RemoteURL, config.GetDuration(cfg.Model.Timeout))
	default:
		return nil, fmt.Errorf("unknown model source %q", cfg.Model.Source)
	}

	if rdb != nil {
		load = classifier.WithCache(load, rdb, time.Duration(cfg.Cache.TTL)*time.Second, cfg.Cache.KeyPrefix, log)
	}
	return load, nil
}

// LimitPolicyFrom applies the configured overrides to the default policy.
func LimitPolicyFrom(cfg config.ScoringConfig) (scoring.LimitPolicy, error) {
	policy, err := scoring.DefaultLimitPolicy().WithCreditPercent(cfg.CreditPercent)
	if err != nil {
		return policy, err
	}
	if len(cfg.LiquidityTiers) > 0 {
		policy.Liquidity = tierTable(cfg.LiquidityTiers)
	}
	if len(cfg.ConcentrationTiers) > 0 {
		policy.Concentration = tierTable(cfg.ConcentrationTiers)
	}
	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

func TransformerFrom(cfg config.ScoringConfig) scoring.ScoreTransformer {
	return scoring.ScoreTransformer{Offset: cfg.Offset, Factor: cfg.Factor}
}

func tierTable(rows []config.TierConfig) scoring.TierTable {
	table := make(scoring.TierTable, len(rows))
	for i, row := range rows {
		table[i] = scoring.TierBound{UpperBound: row.UpperBound, Multiplier: row.Multiplier}
	}
	return table
}
