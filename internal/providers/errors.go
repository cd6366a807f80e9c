package providers

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty model response")

// ServiceError wraps any failure reported by, or while talking to, a model
// provider.
type ServiceError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err unless it already is a ServiceError.
func NewServiceError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Provider: provider, Op: op, Err: err}
}

// IsServiceError reports whether err came from a model provider.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
