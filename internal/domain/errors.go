package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrInvalidBrand    = errors.New("invalid brand request")
	ErrDuplicateTitle  = errors.New("duplicate title")
	ErrProviderFailure = errors.New("provider failure")
	ErrUnexpected      = errors.New("unexpected error")
)

// ValidationError reports a missing or malformed required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidBrand }

// ProviderKind classifies why a provider call failed.
type ProviderKind string

const (
	ProviderKindTransport     ProviderKind = "transport"
	ProviderKindTimeout       ProviderKind = "timeout"
	ProviderKindStatus        ProviderKind = "status"
	ProviderKindMissingField  ProviderKind = "missing_field"
	ProviderKindMalformedJSON ProviderKind = "malformed_json"
	ProviderKindNotConfigured ProviderKind = "not_configured"
)

// ProviderError is the only error shape provider clients return. Status is
// set for ProviderKindStatus.
type ProviderError struct {
	Provider string
	Kind     ProviderKind
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (http %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProviderFailure}
	}
	return []error{ErrProviderFailure, e.Err}
}

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(provider string, kind ProviderKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// StatusError builds a ProviderError for a non-2xx response.
func StatusError(provider string, status int, detail string) *ProviderError {
	var err error
	if detail = strings.TrimSpace(detail); detail != "" {
		err = errors.New(detail)
	}
	return &ProviderError{Provider: provider, Kind: ProviderKindStatus, Status: status, Err: err}
}

// ClassifyTransport converts an arbitrary client-side failure into a
// ProviderError. Errors that already are ProviderErrors pass through.
func ClassifyTransport(provider string, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	if IsTimeout(err) {
		return NewProviderError(provider, ProviderKindTimeout, err)
	}
	return NewProviderError(provider, ProviderKindTransport, err)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// UnexpectedError wraps anything the orchestration could not classify,
// including recovered panics.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return ErrUnexpected.Error()
	}
	return fmt.Sprintf("%s: %v", ErrUnexpected, e.Cause)
}

func (e *UnexpectedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnexpected}
	}
	return []error{ErrUnexpected, e.Cause}
}
