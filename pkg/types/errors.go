package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers and persisted in
// workflow state. Transport-level kinds are retried locally; domain
// kinds propagate to the workflow state machine.
type ErrorKind string

const (
	ErrTransportUnavailable ErrorKind = "transport-unavailable"
	ErrNotRegistered        ErrorKind = "not-registered"
	ErrRejected             ErrorKind = "rejected"
	ErrTimeout              ErrorKind = "timeout"
	ErrValidationFailed     ErrorKind = "validation-failed"
	ErrGateFailed           ErrorKind = "gate-failed"
	ErrCanceled             ErrorKind = "canceled"
	ErrInternal             ErrorKind = "internal"
)

// Fault is a typed failure: an ErrorKind plus a human-readable message.
// Faults carry no stack traces and are safe to surface to users.
type Fault struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewFault builds a Fault with a formatted message
func NewFault(kind ErrorKind, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Retryable reports whether the fault is transient at the transport layer
func (f *Fault) Retryable() bool {
	return f.Kind == ErrTransportUnavailable
}

// FaultFrom extracts a Fault from err, wrapping unknown errors as Internal
func FaultFrom(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Kind: ErrInternal, Message: err.Error()}
}

// IsKind reports whether err is a Fault of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}
