package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Dispatch failure kinds. The error passed to an ErrorHandler wraps one of
// these together with the underlying cause.
var (
	ErrMiddlewareFailure = errors.New("dispatch: middleware failure")
	ErrHandlerFailure    = errors.New("dispatch: handler failure")

	ErrInvalidPattern = errors.New("dispatch: invalid route pattern")
	ErrNilHandler     = errors.New("dispatch: nil handler")

	ErrNoState           = errors.New("dispatch: no shared state configured")
	ErrStateTypeMismatch = errors.New("dispatch: shared state type mismatch")
)

// failure pairs a failure kind with its cause.
type failure struct {
	kind  error
	cause error
}

func newFailure(kind, cause error) error {
	return &failure{kind: kind, cause: cause}
}

func (f *failure) Error() string {
	return f.kind.Error() + ": " + f.cause.Error()
}

func (f *failure) Unwrap() []error {
	return []error{f.kind, f.cause}
}

// Cause returns the error a middleware or handler originally returned,
// stripping the failure kind added by the dispatcher.
func Cause(err error) error {
	var f *failure
	if errors.As(err, &f) {
		return f.cause
	}
	return err
}

// PanicError is a panic recovered by the dispatcher.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// AsPanicError extracts a PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// HTTPError is an error that carries its own status code.
// Returned from a handler or middleware, it replaces the default
// 500 response with Code and Message.
type HTTPError struct {
	Err     error // logged, never sent to the client
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithError attaches the underlying error.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates an HTTPError. An empty message defaults to the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError extracts an HTTPError from anywhere in err's chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// ErrorHandler maps a dispatch failure to the response sent to the client.
// err wraps ErrMiddlewareFailure or ErrHandlerFailure and the cause,
// or is a *PanicError.
type ErrorHandler func(r *Request, err error) *Response

// DefaultErrorHandler answers with the status of an HTTPError in the chain,
// or 500 with body "Error: <cause>".
func DefaultErrorHandler(_ *Request, err error) *Response {
	if he, ok := AsHTTPError(err); ok {
		return Text(he.Code, he.Message)
	}
	return InternalServerError(Cause(err))
}
