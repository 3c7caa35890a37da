package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when session functionality is used
	// but no provider was configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session id is presented
	// but the backing store has no document for it.
	ErrNotFound = errors.New("session: not found")

	// ErrTampered is returned when a session cookie is present
	// but fails signature verification or decryption.
	ErrTampered = errors.New("session: tampered")

	// ErrMalformed is returned when stored or verified session data cannot be decoded.
	ErrMalformed = errors.New("session: malformed data")

	// ErrTooLarge is returned when an encoded session does not fit in a cookie.
	ErrTooLarge = errors.New("session: encoded session too large for cookie")

	// ErrStoreClosed is returned by MemoryStore writes after Close.
	ErrStoreClosed = errors.New("session: store closed")

	// ErrTypeMismatch is returned by Value when the stored value has another type.
	ErrTypeMismatch = errors.New("session: type mismatch")
)
