package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
)

// Session is a per-client document of arbitrary JSON-like values
// addressed by an opaque ID. Mutations stay local until a Provider saves it.
type Session struct {
	Values map[string]any // JSON-compatible document
	ID     string         // stable for the life of the client's session

	dirty     bool // tracks if session needs saving
	isNew     bool // tracks if session was just created
	destroyed bool // tracks if session should be deleted instead of saved
}

// New creates an empty session with the given ID.
func New(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]any),
		isNew:  true,
		dirty:  true,
	}
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// Set stores a value in the session and marks it dirty.
func (s *Session) Set(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// Delete removes a value from the session.
// Marks the session as dirty only if the key existed.
func (s *Session) Delete(key string) {
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Clear removes every value while keeping the ID.
func (s *Session) Clear() {
	if len(s.Values) > 0 {
		s.dirty = true
	}
	s.Values = make(map[string]any)
}

// Document returns a shallow copy of the session values.
func (s *Session) Document() map[string]any {
	doc := make(map[string]any, len(s.Values))
	maps.Copy(doc, s.Values)
	return doc
}

// MarshalJSON encodes the document, never null.
func (s *Session) MarshalJSON() ([]byte, error) {
	if s.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.Values)
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as clean (saved).
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session was created during this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as no longer new.
func (s *Session) ClearNew() {
	s.isNew = false
}

// Destroy empties the session and marks it for deletion. The session
// middleware then removes it through the provider instead of saving it.
func (s *Session) Destroy() {
	s.Values = make(map[string]any)
	s.destroyed = true
}

// IsDestroyed reports whether Destroy was called.
func (s *Session) IsDestroyed() bool {
	return s.destroyed
}

// NeedsSave reports whether the client or the store lacks the current
// state: the session is new or has unsaved changes.
func (s *Session) NeedsSave() bool {
	return s.dirty || s.isNew
}

// Value is a typed helper to retrieve session values with type safety.
// Returns ErrNotFound if the key doesn't exist and ErrTypeMismatch if
// the stored value has a different type.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	val, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w for key: %s", ErrTypeMismatch, key)
	}
	return typed, nil
}

// ValueOr returns a default value if the key doesn't exist or type assertion fails.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}

// Int reads an integer value. Documents decoded from JSON hold numbers as
// float64, documents built in memory may hold any integer type; both are accepted.
func Int(s *Session, key string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := val.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
