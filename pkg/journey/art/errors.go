package art

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrAuthentication   = errors.New("authentication failed")
	ErrNavigation       = errors.New("navigation failed")
	ErrTimeout          = errors.New("timed out waiting for reply")
	ErrNoImageFound     = errors.New("no image found in reply")
	ErrBannedPrompt     = errors.New("prompt was banned")
	ErrUnexpectedStatus = errors.New("unexpected status message")
)

var kinds = []error{
	ErrInvalidRequest,
	ErrAuthentication,
	ErrNavigation,
	ErrTimeout,
	ErrNoImageFound,
	ErrBannedPrompt,
	ErrUnexpectedStatus,
}

// Error ties a failure to one of the error kinds above. errors.Is matches
// both the kind and the wrapped cause.
type Error struct {
	Kind   error
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewError(kind error, op string, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap attaches kind to err unless err already carries a kind.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Errorf(kind error, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind carried by err, or nil.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is the short, stable name of the kind carried by err.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrInvalidRequest:
		return "invalid_request"
	case ErrAuthentication:
		return "authentication"
	case ErrNavigation:
		return "navigation"
	case ErrTimeout:
		return "timeout"
	case ErrNoImageFound:
		return "no_image_found"
	case ErrBannedPrompt:
		return "banned_prompt"
	case ErrUnexpectedStatus:
		return "unexpected_status"
	default:
		return "internal"
	}
}
