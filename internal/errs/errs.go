// Package errs defines the closed set of error kinds the server can return
// to a JSON-RPC peer, and the mapping from kind to a wire error code.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds named in the error-handling design: every
// operation that can fail returns an error wrapping exactly one Kind.
type Kind string

const (
	InvalidInput     Kind = "invalid_input"
	NotFound         Kind = "not_found"
	FeatureDisabled  Kind = "feature_disabled"
	ParseFailure     Kind = "parse_failure"
	NoFunctionBody   Kind = "no_function_body"
	IndexUnavailable Kind = "index_unavailable"
	Transient        Kind = "transient"
	Fatal            Kind = "fatal"
)

// Error wraps an underlying error with a Kind and a short user-facing
// message. The message never includes a stack trace or internal paths
// beyond what the caller supplied.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to Fatal for errors that
// were not constructed through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Fatal
}

// RPCCode returns the JSON-RPC 2.0 error code a Kind should surface as.
// FeatureDisabled and NotFound map to -32000, the shared "request
// refused for a reason the caller can't fix by retrying" code.
// InvalidInput maps to the standard -32602 ("Invalid params"), since
// it is always about the decoded tool arguments. The remaining kinds
// each get a distinct code in the -32001..-32099 implementation-defined
// server-error range so a peer can tell them apart without parsing the
// message text; Fatal maps to the standard -32603 ("Internal error").
// Parse errors on the incoming message itself (not on handler results)
// are produced directly by the transport layer with code -32700 and are
// not represented by a Kind here.
func RPCCode(k Kind) int {
	switch k {
	case FeatureDisabled, NotFound:
		return -32000
	case InvalidInput:
		return -32602
	case ParseFailure:
		return -32001
	case NoFunctionBody:
		return -32002
	case IndexUnavailable:
		return -32003
	case Transient:
		return -32004
	case Fatal:
		return -32603
	default:
		return -32000
	}
}
