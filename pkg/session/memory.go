package session

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often MemoryStore drops expired documents.
const DefaultCleanupInterval = time.Minute

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	cleanupInterval time.Duration
	maxEntries      int
}

// WithCleanupInterval sets how often the background janitor removes
// expired documents. Zero or negative disables the janitor; expired
// documents are then only dropped when read.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of stored documents. When the cap is
// reached the least recently used document is evicted.
// Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

type memoryEntry struct {
	expiresAt time.Time // zero value = never expires
	key       string
	value     []byte
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps session documents in process memory, for tests and
// single-instance deployments.
//
// A janitor goroutine sweeps expired documents, so sessions created by
// clients that never return do not accumulate. Call Close to stop it.
type MemoryStore struct {
	items    map[string]*list.Element
	eviction *list.List // front = most recently used
	opts     memoryOptions
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
//
// Example:
//
//	store := session.NewMemoryStore(
//	    session.WithCleanupInterval(30 * time.Second),
//	    session.WithMaxEntries(100000),
//	)
//	defer store.Close()
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := memoryOptions{cleanupInterval: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryStore{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go s.janitor()
	}

	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}

	e := elem.Value.(*memoryEntry)
	if e.expired(time.Now()) {
		s.remove(elem)
		return nil, ErrNotFound
	}

	s.eviction.MoveToFront(elem)
	return append([]byte(nil), e.value...), nil
}

// Set stores value under key. Returns ErrStoreClosed after Close.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	value = append([]byte(nil), value...)

	if elem, ok := s.items[key]; ok {
		e := elem.Value.(*memoryEntry)
		e.value = value
		e.expiresAt = expiresAt
		s.eviction.MoveToFront(elem)
		return nil
	}

	if s.opts.maxEntries > 0 && len(s.items) >= s.opts.maxEntries {
		if oldest := s.eviction.Back(); oldest != nil {
			s.remove(oldest)
		}
	}

	s.items[key] = s.eviction.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.remove(elem)
	}
	return nil
}

// Len returns the number of stored documents, including expired ones
// the janitor has not swept yet.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// DeleteExpired removes every expired document and returns how many
// were removed.
func (s *MemoryStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := s.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry).expired(now) {
			s.remove(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Close stops the janitor. Stored documents stay readable, writes fail
// with ErrStoreClosed. Close is idempotent.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return nil
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(s.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.DeleteExpired()
		}
	}
}

// remove drops elem. Caller must hold the mutex.
func (s *MemoryStore) remove(elem *list.Element) {
	s.eviction.Remove(elem)
	delete(s.items, elem.Value.(*memoryEntry).key)
}
