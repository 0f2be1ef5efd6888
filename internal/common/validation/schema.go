// Package validation checks analysis payloads before they reach the engine.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (r *ValidationResult) String() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

var sampleSchema = mustSampleSchema()

// SampleSchema returns the JSON schema of an analysis payload: every model
// variable is a required number and extra fields are allowed.
func SampleSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(scoring.Variables))
	for _, v := range scoring.Variables {
		props[string(v)] = map[string]interface{}{"type": "number"}
	}
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             scoring.VariableNames(scoring.Variables),
		"additionalProperties": true,
	}
}

func mustSampleSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(SampleSchema()))
	if err != nil {
		panic(fmt.Sprintf("invalid sample schema: %v", err))
	}
	return s
}

// Validate runs the sample schema against doc.
func Validate(doc map[string]interface{}) (*ValidationResult, error) {
	result, err := sampleSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	return out, nil
}

// ParseSample decodes an HTTP body into a Sample. An empty body, a non-object
// or an empty object is an invalid payload.
func ParseSample(body []byte) (scoring.Sample, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, apperrors.NewInvalidPayloadError(nil)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, apperrors.NewInvalidPayloadError(err)
	}
	if len(doc) == 0 {
		return nil, apperrors.NewInvalidPayloadError(nil)
	}
	return SampleFromMap(doc)
}

// SampleFromMap converts already decoded variables into a Sample. Missing
// variables produce a validation error naming all of them in canonical order;
// present but non-numeric values are an internal computation error.
func SampleFromMap(doc map[string]interface{}) (scoring.Sample, error) {
	var missing []string
	for _, v := range scoring.Variables {
		if _, ok := doc[string(v)]; !ok {
			missing = append(missing, string(v))
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError(missing)
	}

	result, err := Validate(doc)
	if err != nil {
		return nil, apperrors.NewInternalComputationError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInternalComputationError(fmt.Errorf("invalid variables: %s", result))
	}

	sample := make(scoring.Sample, len(scoring.Variables))
	for _, v := range scoring.Variables {
		f, err := toFloat(doc[string(v)])
		if err != nil {
			return nil, apperrors.NewInternalComputationError(fmt.Errorf("%s: %w", v, err))
		}
		sample[v] = f
	}
	return sample, nil
}

func toFloat(raw interface{}) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("value %v of type %T is not a number", raw, raw)
	}
}
