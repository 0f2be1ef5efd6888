package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	commonhttp "github.com/DWS-OmarMoreno/alfix-services/internal/common/http"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

type remoteRequest struct {
	Features map[string]float64 `json:"features"`
}

type remoteResponse struct {
	PD *float64 `json:"pd"`
}

// RemoteClassifier asks a model server for the probability of default.
type RemoteClassifier struct {
	client   *commonhttp.Client
	endpoint string
}

func NewRemoteClassifier(endpoint string, timeout time.Duration) (*RemoteClassifier, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid model endpoint %q", endpoint)
	}
	return &RemoteClassifier{
		client:   commonhttp.NewClient(timeout),
		endpoint: endpoint,
	}, nil
}

// PredictPD posts the canonical features. Transport failures and 5xx
// responses wrap scoring.ErrClassifierUnavailable; anything else is a
// computation failure.
func (r *RemoteClassifier) PredictPD(ctx context.Context, sample scoring.Sample) (float64, error) {
	req := remoteRequest{Features: make(map[string]float64, len(scoring.Variables))}
	for _, v := range scoring.Variables {
		val, ok := sample[v]
		if !ok {
			return 0, fmt.Errorf("sample lacks feature %s", v)
		}
		req.Features[string(v)] = val
	}

	var resp remoteResponse
	if err := r.client.PostJSON(ctx, r.endpoint, req, &resp); err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			return 0, fmt.Errorf("model server rejected request: %w", err)
		}
		return 0, fmt.Errorf("%w: %v", scoring.ErrClassifierUnavailable, err)
	}

	if resp.PD == nil {
		return 0, errors.New("model server response has no pd")
	}
	pd := *resp.PD
	if math.IsNaN(pd) || pd < 0 || pd > 1 {
		return 0, fmt.Errorf("model server returned pd %v outside [0,1]", pd)
	}
	return pd, nil
}

// Ping checks that the model server answers at all.
func (r *RemoteClassifier) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, r.endpoint); err != nil {
		return fmt.Errorf("%w: %v", scoring.ErrClassifierUnavailable, err)
	}
	return nil
}

// RemoteLoader builds a RemoteClassifier on first use.
func RemoteLoader(endpoint string, timeout time.Duration) Loader {
	return func(context.Context) (scoring.Classifier, error) {
		r, err := NewRemoteClassifier(endpoint, timeout)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
