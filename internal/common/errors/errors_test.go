package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]string{"total_equity", "prov_cur_total"})

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, "Faltan las siguientes variables: total_equity, prov_cur_total", err.Message)
	assert.Equal(t, []string{"total_equity", "prov_cur_total"}, err.MissingVariables())
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.False(t, err.Retryable)
}

func TestHTTPStatusAndPublicMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        *StandardError
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid payload",
			err:        NewInvalidPayloadError(fmt.Errorf("unexpected EOF")),
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgInvalidPayload,
		},
		{
			name:       "model unavailable",
			err:        NewModelUnavailableError(fmt.Errorf("open model.json: no such file")),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    MsgModelUnavailable,
		},
		{
			name:       "internal hides details",
			err:        NewInternalComputationError(fmt.Errorf("field total_equity is a string")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.Equal(t, tt.wantMsg, tt.err.PublicMessage())
			assert.NotContains(t, tt.err.PublicMessage(), "total_equity")
		})
	}
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	plain := stderrors.New("boom")
	got := AsStandardError(plain)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeInternalComputationError, got.Code)
	assert.True(t, stderrors.Is(got, plain))

	validation := NewValidationError([]string{"total_equity"})
	wrapped := fmt.Errorf("analyze: %w", validation)
	assert.Same(t, validation, AsStandardError(wrapped))
	assert.True(t, IsCode(wrapped, ErrCodeValidationFailed))
	assert.False(t, IsCode(wrapped, ErrCodeModelUnavailable))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewValidationError([]string{"total_equity"}))

	assert.Equal(t, "CREDIT_INPUT_INVALID", bpmn.Code)
	assert.False(t, bpmn.Retryable)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "CREDIT_INPUT_INVALID", vars["errorCode"])
	assert.Equal(t, "VALIDATION_FAILED", vars["originalErrorCode"])
	assert.Equal(t, []string{"total_equity"}, vars["missingVariables"])

	internal := ConvertToBPMNError(NewInternalComputationError(stderrors.New("nan")))
	assert.Equal(t, "CREDIT_SCORING_FAILED", internal.Code)
	assert.Equal(t, MsgInternal, internal.Message)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeModelUnavailable))
	assert.Equal(t, "COMPUTATION", GetErrorCategory(ErrCodeInternalComputationError))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}
