package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
)

type Kind int

const (
	KindInternal Kind = iota
	KindMissingCredential
	KindInvalidCredential
	KindInvalidArgument
	KindNotFound
	KindQuotaExceeded
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Error is a service failure with the response code the handler reports for it.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, dto.Message(e.Code))
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code int, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

func invalid(code int, reason string) *Error {
	return newError(KindInvalidArgument, code, errors.New(reason))
}

func notFound(code int) *Error {
	return newError(KindNotFound, code, nil)
}

func internal(code int, err error) *Error {
	return newError(KindInternal, code, err)
}

func upstream(code int, err error) *Error {
	return newError(KindUpstream, code, err)
}

// CodeOf extracts the response code from err. Errors that did not come
// from this package report the system error code.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return dto.CodeSystem
}

// KindOf reports the failure kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
