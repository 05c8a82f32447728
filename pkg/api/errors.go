package api

import (
	"fmt"
	"net/http"
)

// ValidationError means the caller's input was rejected before any network
// call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CredentialsError means the service rejected the current credentials.
// The session should be treated as dead.
type CredentialsError struct{}

func (e *CredentialsError) Error() string {
	return "credentials rejected"
}

// ConflictError means the resource already exists, for example a duplicate
// account on register.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "resource conflict"
	}

	return e.Message
}

// NetworkError means no response was received, including timeouts and
// canceled contexts. Wraps the transport error.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means a response was received with a non-2xx status.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}

// DecodeError means the response body could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StorageError means local persistence failed, for example writing the
// token store.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// statusError maps a non-2xx response status to the error taxonomy.
func statusError(status int) error {
	if status == http.StatusUnauthorized {
		return &CredentialsError{}
	}

	return &ServerError{Status: status}
}
