// Package errors defines the closed error taxonomy returned by the scoring
// service and its conversion to HTTP responses and BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode is the machine readable identifier of a StandardError.
type ErrorCode string

const (
	ErrCodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	ErrCodeModelUnavailable         ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeInternalComputationError ErrorCode = "INTERNAL_COMPUTATION_ERROR"
)

// Messages exposed to callers. Internal details never leave the process.
const (
	MsgInvalidPayload   = "No se recibieron datos en formato JSON."
	MsgMissingVariables = "Faltan las siguientes variables: "
	MsgModelUnavailable = "Modelo no disponible en el servidor."
	MsgInternal         = "Error interno del servidor"
)

// StandardError is the structured error carried across every boundary.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error code to the status returned by the API.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show to a caller.
func (e *StandardError) PublicMessage() string {
	switch e.Code {
	case ErrCodeValidationFailed, ErrCodeModelUnavailable:
		return e.Message
	default:
		return MsgInternal
	}
}

// MissingVariables returns the absent identifiers of a validation error, if any.
func (e *StandardError) MissingVariables() []string {
	if e.Metadata == nil {
		return nil
	}
	missing, _ := e.Metadata["missing"].([]string)
	return missing
}

// BPMNError is thrown to the Zeebe engine instead of failing a job.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables attached to a thrown error.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// NewInvalidPayloadError is returned when the body is empty or not a JSON object.
func NewInvalidPayloadError(err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   MsgInvalidPayload,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// NewValidationError enumerates every absent input variable, in the order given.
func NewValidationError(missing []string) *StandardError {
	list := append([]string(nil), missing...)
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   MsgMissingVariables + strings.Join(list, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"missing": list},
		Timestamp: time.Now().UTC(),
	}
}

// NewModelUnavailableError reports that the default-probability classifier
// could not be obtained or reached.
func NewModelUnavailableError(err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   MsgModelUnavailable,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// NewInternalComputationError wraps any other failure.
func NewInternalComputationError(err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeInternalComputationError,
		Message:   "Internal computation error",
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// AsStandardError normalises err into the closed taxonomy. Anything that is
// not already a StandardError becomes an internal computation error.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalComputationError(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// BPMNErrorMapping maps internal codes to the error codes modelled in BPMN.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:         "CREDIT_INPUT_INVALID",
	ErrCodeModelUnavailable:         "CREDIT_MODEL_UNAVAILABLE",
	ErrCodeInternalComputationError: "CREDIT_SCORING_FAILED",
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if missing := stdErr.MissingVariables(); len(missing) > 0 {
		vars["missingVariables"] = missing
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.PublicMessage(),
		Details:        stdErr.Details,
		Retryable:      false,
		ErrorVariables: vars,
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "VALIDATION"
	case ErrCodeModelUnavailable:
		return "MODEL"
	case ErrCodeInternalComputationError:
		return "COMPUTATION"
	default:
		return "OTHER"
	}
}
