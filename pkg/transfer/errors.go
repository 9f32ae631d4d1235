package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when a request parameter fails validation.
	ErrInvalidParameter = errors.New("transfer: invalid parameter")

	// ErrNoDatasets is returned when a request carries no datasets.
	ErrNoDatasets = errors.New("transfer: no datasets to send")

	// ErrAlreadySent is returned when Send is called on a transfer that was
	// already sent.
	ErrAlreadySent = errors.New("transfer: already sent")

	// ErrService is returned when the service answers with a non-200 status.
	ErrService = errors.New("transfer: service rejected transfer")

	// ErrUnexpectedResponse is returned when a 200 response does not have the
	// expected message shape.
	ErrUnexpectedResponse = errors.New("transfer: unexpected response")
)

// ValidationError names the offending request field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transfer: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// ServiceError carries the raw body of a rejected transfer.
type ServiceError struct {
	StatusCode int
	Body       []byte

	// Payload is the decoded JSON body, nil if the body was not JSON.
	Payload any
}

func newServiceError(status int, body []byte) *ServiceError {
	e := &ServiceError{StatusCode: status, Body: body}
	var payload any
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Payload = payload
	}
	return e
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("transfer: service returned %d: %s", e.StatusCode, string(e.Body))
}

func (e *ServiceError) Unwrap() error {
	return ErrService
}

// ResponseError reports a success response that could not be parsed.
type ResponseError struct {
	Reason  string
	Payload []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("transfer: unexpected response: %s: %s", e.Reason, string(e.Payload))
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}
