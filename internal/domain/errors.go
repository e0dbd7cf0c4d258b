package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing the collaborator boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the normalized failure produced at the collaborator boundary.
// StatusCode is zero when no HTTP response was received.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

const unknownErrorMessage = "unknown error"

// Normalize turns any rejection reason into an *Error. Errors keep their
// message, an *Error anywhere in the chain is returned as is, and other
// values are formatted with fmt.
func Normalize(reason any) *Error {
	switch r := reason.(type) {
	case nil:
		return &Error{Kind: KindUnknown, Message: unknownErrorMessage}
	case *Error:
		return r
	case error:
		var de *Error
		if errors.As(r, &de) {
			return de
		}
		kind := KindUnknown
		if errors.Is(r, ErrProductNotFound) {
			kind = KindNotFound
		}
		return &Error{Kind: kind, Message: messageOrDefault(r.Error()), Err: r}
	default:
		return &Error{Kind: KindUnknown, Message: messageOrDefault(fmt.Sprint(r))}
	}
}

// Message is shorthand for Normalize(reason).Message.
func Message(reason any) string {
	return Normalize(reason).Message
}

// IsNotFound reports whether err is a not-found failure in either form.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrProductNotFound) {
		return true
	}
	var de *Error
	return errors.As(err, &de) && de.Kind == KindNotFound
}

func messageOrDefault(msg string) string {
	if msg == "" {
		return unknownErrorMessage
	}
	return msg
}
