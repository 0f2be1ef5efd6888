// Package classifier supplies the probability-of-default model used by the
// scoring engine: a lazily loaded logistic artifact or a remote model server,
// optionally fronted by a redis cache.
package classifier

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/metrics"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

// Pinger is implemented by classifiers backed by something that can go away
// after loading, such as a model server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Loader builds a classifier. It is called at most once per successful load.
type Loader func(ctx context.Context) (scoring.Classifier, error)

// Provider loads the classifier on first use. Concurrent first callers share
// one load; a failed load is not remembered, so the next call tries again.
type Provider struct {
	load   Loader
	logger logger.Logger

	mu    sync.RWMutex
	clf   scoring.Classifier
	group singleflight.Group
}

func NewProvider(load Loader, log logger.Logger) *Provider {
	return &Provider{
		load:   load,
		logger: log.WithFields(map[string]interface{}{"component": "classifier-provider"}),
	}
}

// Classifier returns the loaded classifier, loading it if needed. Load
// failures wrap scoring.ErrClassifierUnavailable.
func (p *Provider) Classifier(ctx context.Context) (scoring.Classifier, error) {
	if clf := p.current(); clf != nil {
		return clf, nil
	}

	v, err, _ := p.group.Do("load", func() (interface{}, error) {
		if clf := p.current(); clf != nil {
			return clf, nil
		}

		clf, err := p.load(context.WithoutCancel(ctx))
		if err != nil {
			metrics.ClassifierLoadsTotal.WithLabelValues("failure").Inc()
			p.logger.WithError(err).Error("Failed to load classifier", nil)
			return nil, fmt.Errorf("%w: %v", scoring.ErrClassifierUnavailable, err)
		}

		p.mu.Lock()
		p.clf = clf
		p.mu.Unlock()

		metrics.ClassifierLoadsTotal.WithLabelValues("success").Inc()
		fields := map[string]interface{}{"type": fmt.Sprintf("%T", clf)}
		if v, ok := clf.(interface{ Version() string }); ok && v.Version() != "" {
			fields["version"] = v.Version()
		}
		p.logger.Info("Classifier loaded", fields)
		return clf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(scoring.Classifier), nil
}

// Ready reports whether a classifier is loaded or can be loaded now, and
// that it still answers when it can be pinged.
func (p *Provider) Ready(ctx context.Context) error {
	clf, err := p.Classifier(ctx)
	if err != nil {
		return err
	}
	if pinger, ok := clf.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Loaded reports whether a classifier is already held, without loading it.
func (p *Provider) Loaded() bool {
	return p.current() != nil
}

func (p *Provider) current() scoring.Classifier {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clf
}
