package directory

import (
	"errors"
	"strings"
)

var (
	// ErrConnectivity is returned when the directory endpoint does not accept TCP connections,
	// even after auto-discovery. It is retryable once another endpoint becomes reachable.
	ErrConnectivity = errors.New("directory endpoint unreachable")

	// ErrBindExhausted is returned when every administrative credential format was rejected.
	// It stays fatal until the configuration is fixed.
	ErrBindExhausted = errors.New("all administrative bind formats rejected")

	// ErrInvalidCredential marks a rejected user bind. It is an expected outcome, not a fault.
	ErrInvalidCredential = errors.New("invalid directory credential")

	// ErrDirectoryQuery is returned when a search fails after a successful bind,
	// or when a returned entry cannot be normalized.
	ErrDirectoryQuery = errors.New("directory query failed")

	// ErrUnknownBindFormat is returned for a configured bind format name that does not exist.
	ErrUnknownBindFormat = errors.New("unknown bind format")

	// ErrHostEmpty is returned when no directory host is configured.
	ErrHostEmpty = errors.New("directory host can not be empty")

	// ErrBaseDNEmpty is returned when no search base is configured.
	ErrBaseDNEmpty = errors.New("directory base dn can not be empty")
)

// BindExhaustedError carries the formats that were tried and the last bind error.
// It matches ErrBindExhausted with errors.Is.
type BindExhaustedError struct {
	Attempts []string
	Last     error
}

func (e *BindExhaustedError) Error() string {
	msg := ErrBindExhausted.Error() + " (tried " + strings.Join(e.Attempts, ", ") + ")"
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}

	return msg
}

// Unwrap exposes both the sentinel and the underlying bind error.
func (e *BindExhaustedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrBindExhausted}
	}

	return []error{ErrBindExhausted, e.Last}
}

// ConnectivityError reports the endpoint that could not be reached.
// It matches ErrConnectivity with errors.Is.
type ConnectivityError struct {
	Endpoint Endpoint
	Err      error
}

func (e *ConnectivityError) Error() string {
	msg := ErrConnectivity.Error() + ": " + e.Endpoint.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the sentinel and the dial error.
func (e *ConnectivityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConnectivity}
	}

	return []error{ErrConnectivity, e.Err}
}
