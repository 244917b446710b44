package api

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when the backend rejects a login or
// activation attempt. No session is created in that case.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is a non-2xx backend response with its decoded message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// errorMessage picks the first populated error field out of the envelope.
// Django-style backends spread the message across several keys.
func (e tokenEnvelope) errorMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	case len(e.NonFieldErrors) > 0:
		return e.NonFieldErrors[0]
	default:
		return ""
	}
}
