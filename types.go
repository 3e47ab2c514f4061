package reqheaders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRequestContext reports that no header bag has been published on
	// the current context. Callers outside a request scope (batch jobs,
	// internal triggers) should treat this as "no headers", not as a fault.
	ErrNoRequestContext = errors.New("no request header context available")

	// ErrMalformedPayload reports that a published header payload is not a
	// flat JSON object of string values. It indicates an upstream
	// infrastructure fault and is never silently replaced by an empty bag.
	ErrMalformedPayload = errors.New("malformed header payload")

	ErrChainTooLong = errors.New("forwarded-for chain too long")

	ErrInvalidForwardedHeader = errors.New("invalid forwarded header")

	ErrSourceUnavailable = errors.New("client IP source unavailable")

	ErrInvalidVersion = errors.New("invalid version string")
)

// PayloadError wraps a payload parse failure with positional detail.
type PayloadError struct {
	Err    error
	Detail string
}

func (e *PayloadError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// DerivationError tags a derivation failure with the source it came from.
type DerivationError struct {
	Err    error
	Source string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

func (e *DerivationError) SourceName() string {
	return e.Source
}

type ChainTooLongError struct {
	DerivationError
	ChainLength int
	MaxLength   int
}

func (e *ChainTooLongError) Error() string {
	return fmt.Sprintf("%s: %v (chain_length=%d, max_length=%d)",
		e.Source, e.Err, e.ChainLength, e.MaxLength)
}

// ClientSignals holds the signals derived from one header bag.
//
// ClientIP is meaningful only when ClientIPPresent is true; an absent IP is
// a first-class state, distinct from an empty string published by a proxy.
type ClientSignals struct {
	ClientIP        string
	ClientIPPresent bool
	Platform        PlatformFamily
	Mobile          bool
}

// PlatformFamily is a coarse, best-effort classification of the client
// platform. It is derived from the spoofable user-agent header and provides
// a stable mapping for a fixed rule table, not ground truth about the
// client.
type PlatformFamily int

const (
	PlatformUnknown PlatformFamily = iota
	PlatformWindows
	PlatformMac
	PlatformIOS
	PlatformAndroid
	PlatformOther
)

// String returns the canonical text representation of p.
func (p PlatformFamily) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformMac:
		return "mac"
	case PlatformIOS:
		return "ios"
	case PlatformAndroid:
		return "android"
	case PlatformOther:
		return "other"
	default:
		return "unknown"
	}
}

// NormalizeSourceName converts a header name to its canonical source label
// used in logs and metrics.
func NormalizeSourceName(headerName string) string {
	return strings.ToLower(strings.ReplaceAll(headerName, "-", "_"))
}
