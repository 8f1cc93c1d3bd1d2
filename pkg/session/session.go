package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the form: an id, the answer map, and its start time.
type Session struct {
	ID        string
	Answers   Answers
	CreatedAt time.Time

	mu sync.Mutex
}

// Lock serialises interactions on one session. Two browser tabs sharing a
// cookie would otherwise write the same answer map concurrently.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// New returns a session with a fresh id and empty answers.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Answers:   make(Answers),
		CreatedAt: time.Now().UTC(),
	}
}

const (
	// DefaultIdleTTL is how long a session survives without a request.
	DefaultIdleTTL = 2 * time.Hour
	// DefaultMaxSessions caps the number of live sessions.
	DefaultMaxSessions = 10000
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTTL sets how long an untouched session is kept. Zero or negative
// disables expiry.
func WithIdleTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithMaxSessions caps the live sessions; creating one past the cap evicts
// the least recently used. Zero or negative disables the cap.
func WithMaxSessions(limit int) StoreOption {
	return func(s *Store) {
		s.max = limit
	}
}

// WithStoreClock overrides the time source used for expiry.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Store keeps sessions in memory keyed by id. Each session's answers are only
// ever touched through that session; the store never merges them. Sessions
// idle past the TTL are dropped on the next create.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore(options ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      DefaultIdleTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the live session for id and marks it as seen. Expired sessions
// are removed and reported as missing.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

// Create registers and returns a new session, first sweeping expired ones
// and evicting the least recently used when the store is full.
func (s *Store) Create() *Session {
	sess := New()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.max > 0 {
		for len(s.sessions) >= s.max {
			s.evictOldestLocked()
		}
	}
	s.sessions[sess.ID] = &entry{sess: sess, lastSeen: now}
	return sess
}

// GetOrCreate returns the session for id, creating a new one (with a new id)
// when id is unknown or expired. The boolean reports whether a session was
// created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

// Delete drops the session for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// Len reports the number of stored sessions, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
