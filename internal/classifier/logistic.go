package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

// Artifact is the serialized form of a standardized logistic regression.
type Artifact struct {
	Version      string    `json:"version,omitempty"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Scaler       *Scaler   `json:"scaler,omitempty"`
}

// Scaler standardizes each feature as (x-mean)/scale before the dot product.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LogisticModel evaluates an Artifact.
type LogisticModel struct {
	artifact Artifact
	features []scoring.Variable
}

// NewLogisticModel checks that the artifact covers exactly the canonical
// variables and that every vector has matching length.
func NewLogisticModel(a Artifact) (*LogisticModel, error) {
	n := len(scoring.Variables)
	if len(a.Features) != n {
		return nil, fmt.Errorf("artifact declares %d features, want %d", len(a.Features), n)
	}
	if len(a.Coefficients) != n {
		return nil, fmt.Errorf("artifact has %d coefficients, want %d", len(a.Coefficients), n)
	}
	if a.Scaler != nil && (len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n) {
		return nil, fmt.Errorf("artifact scaler must have %d means and scales", n)
	}

	seen := make(map[scoring.Variable]bool, n)
	features := make([]scoring.Variable, n)
	for i, name := range a.Features {
		v := scoring.Variable(name)
		if !v.IsKnown() {
			return nil, fmt.Errorf("artifact feature %q is not a model input", name)
		}
		if seen[v] {
			return nil, fmt.Errorf("artifact feature %q is duplicated", name)
		}
		seen[v] = true
		features[i] = v

		if a.Scaler != nil && a.Scaler.Scale[i] == 0 {
			return nil, fmt.Errorf("artifact scale for %q is zero", name)
		}
	}

	return &LogisticModel{artifact: a, features: features}, nil
}

// PredictPD returns the logistic probability of default for sample.
func (m *LogisticModel) PredictPD(_ context.Context, sample scoring.Sample) (float64, error) {
	z := m.artifact.Intercept
	for i, v := range m.features {
		x, ok := sample[v]
		if !ok {
			return 0, fmt.Errorf("sample lacks feature %s", v)
		}
		if s := m.artifact.Scaler; s != nil {
			x = (x - s.Mean[i]) / s.Scale[i]
		}
		z += m.artifact.Coefficients[i] * x
	}

	pd := 1 / (1 + math.Exp(-z))
	if math.IsNaN(pd) {
		return 0, errors.New("logistic evaluation produced NaN")
	}
	return pd, nil
}

// Version returns the artifact version tag, if any.
func (m *LogisticModel) Version() string { return m.artifact.Version }

// LoadArtifact reads and validates a JSON artifact from disk.
func LoadArtifact(path string) (*LogisticModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	m, err := NewLogisticModel(a)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return m, nil
}

// ArtifactLoader defers LoadArtifact until the provider first needs it.
func ArtifactLoader(path string) Loader {
	return func(context.Context) (scoring.Classifier, error) {
		m, err := LoadArtifact(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
