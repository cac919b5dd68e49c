package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller's retry/fallback policy.
type Kind int

const (
	// KindInvalidInput marks requests rejected before the pipeline runs.
	// Never retried.
	KindInvalidInput Kind = iota + 1
	// KindNotFound marks missing cargo/schedule/port/quotation/prediction
	// rows. Surfaced unchanged, no retry.
	KindNotFound
	// KindExternalService marks transport failures against rate or forecast
	// sources. Recoverable only through an explicit configured fallback.
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindExternalService:
		return "external_service"
	default:
		return "unknown"
	}
}

// Error carries a failure kind plus a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Code, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and code so sentinel instances work with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	if other.Code != "" && other.Code != e.Code {
		return false
	}
	return other.Kind == e.Kind
}

// InvalidInput builds a validation failure.
func InvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// NotFound builds a missing-record failure.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// External wraps a collaborator transport failure.
func External(code, message string, err error) *Error {
	return &Error{Kind: KindExternalService, Code: code, Message: message, Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Stable codes carried over from the upstream service contract.
var (
	ErrInvalidCargoInput  = InvalidInput("CARGO401", "invalid cargo input")
	ErrCargoNotFound      = NotFound("CARGO402", "cargo not found")
	ErrScheduleNotFound   = NotFound("SCHEDULE403", "vessel schedule not found")
	ErrPortNotFound       = NotFound("PORT405", "port not found")
	ErrQuotationNotFound  = NotFound("QUOTATION402", "quotation not found")
	ErrPredictionNotFound = NotFound("PREDICTION401", "no freight index for the requested months")
	ErrExternalAPI        = External("ETC401", "external API call failed", nil)
)
