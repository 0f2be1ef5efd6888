package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/metrics"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

// CachedClassifier memoizes probabilities in redis, keyed by a hash of the
// canonical feature vector. Redis failures degrade to a direct prediction.
type CachedClassifier struct {
	next   scoring.Classifier
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedClassifier(next scoring.Classifier, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedClassifier {
	return &CachedClassifier{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "pd-cache"}),
	}
}

// Key returns the cache key of sample.
func (c *CachedClassifier) Key(sample scoring.Sample) (string, error) {
	features, err := sample.Features()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return c.prefix + hex.EncodeToString(sum[:]), nil
}

// Ping forwards to the wrapped classifier when it can be pinged. The cache
// itself is optional and does not affect readiness.
func (c *CachedClassifier) Ping(ctx context.Context) error {
	if p, ok := c.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Version reports the wrapped classifier's version, if it has one.
func (c *CachedClassifier) Version() string {
	if v, ok := c.next.(interface{ Version() string }); ok {
		return v.Version()
	}
	return ""
}

func (c *CachedClassifier) PredictPD(ctx context.Context, sample scoring.Sample) (float64, error) {
	key, err := c.Key(sample)
	if err != nil {
		return 0, err
	}

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if pd, perr := strconv.ParseFloat(cached, 64); perr == nil {
			metrics.PDCacheTotal.WithLabelValues("hit").Inc()
			return pd, nil
		}
		metrics.PDCacheTotal.WithLabelValues("corrupt").Inc()
	case errors.Is(err, redis.Nil):
		metrics.PDCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.PDCacheTotal.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("PD cache read failed", nil)
	}

	pd, err := c.next.PredictPD(ctx, sample)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Set(ctx, key, strconv.FormatFloat(pd, 'g', -1, 64), c.ttl).Err(); err != nil {
		c.logger.Warn("PD cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return pd, nil
}

// WithCache wraps whatever load produces in a CachedClassifier.
func WithCache(load Loader, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) Loader {
	return func(ctx context.Context) (scoring.Classifier, error) {
		clf, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return NewCachedClassifier(clf, rdb, ttl, prefix, log), nil
	}
}
