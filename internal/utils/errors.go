package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError for logging and metrics.
type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "InvalidRequest"
	KindConfiguration       ErrorKind = "ConfigurationError"
	KindUpstreamUnreachable ErrorKind = "UpstreamUnreachable"
	KindQuotaExceeded       ErrorKind = "QuotaExceeded"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindForbidden           ErrorKind = "Forbidden"
	KindUpstreamError       ErrorKind = "UpstreamError"
	KindResponseParse       ErrorKind = "ResponseParseError"
	KindInternal            ErrorKind = "InternalError"
)

// AppError is an error that knows how it should be surfaced over HTTP.
// Details are merged into the JSON error body next to "error".
type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets a diagnostic field and returns e.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Body is the JSON payload written for e.
func (e *AppError) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

func NewAppError(kind ErrorKind, status int, message string) *AppError {
	return &AppError{Kind: kind, StatusCode: status, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(KindInvalidRequest, http.StatusBadRequest, message)
}

func NewConfigurationError(message string) *AppError {
	return NewAppError(KindConfiguration, http.StatusInternalServerError, message)
}

func NewInternalError(message string) *AppError {
	return NewAppError(KindInternal, http.StatusInternalServerError, message)
}

// AsAppError unwraps err into an *AppError, or reports false.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
