package apperr

import (
	"errors"
	"maps"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStateConflict
	KindThrottled
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindStateConflict:
		return "STATE_CONFLICT"
	case KindThrottled:
		return "THROTTLED"
	case KindParse:
		return "PARSE"
	}

	return "INTERNAL"
}

// Error carries a stable machine-readable Code. Two *Error values match under errors.Is
// when their codes are equal, so sentinels keep matching after With or Wrap.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error    { return New(KindValidation, code, message) }
func NotFound(code, message string) *Error      { return New(KindNotFound, code, message) }
func StateConflict(code, message string) *Error { return New(KindStateConflict, code, message) }
func Throttled(code, message string) *Error     { return New(KindThrottled, code, message) }
func Parse(code, message string) *Error         { return New(KindParse, code, message) }

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// With returns a copy carrying the given detail key/value.
func (e *Error) With(key string, value any) *Error {
	c := *e
	c.Details = maps.Clone(e.Details)

	if c.Details == nil {
		c.Details = make(map[string]any)
	}

	c.Details[key] = value

	return &c
}

// Withf returns a copy with a replaced message.
func (e *Error) Withf(message string) *Error {
	c := *e
	c.Message = message

	return &c
}

// Wrap returns a copy that records cause as the underlying error.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause

	return &c
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// HTTPStatus maps an error onto the status code the API answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindStateConflict, KindThrottled, KindParse:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

var ErrInternal = New(KindInternal, "INTERNAL", "internal error")
