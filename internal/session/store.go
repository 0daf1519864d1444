// Package session holds the in-memory editing sessions and the HTTP
// API the studio UI drives. A session owns one Document at a time;
// every mutation goes through the session so websocket watchers see a
// consistent stream of updates.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lpforge/lpforge/internal/page"
)

// Session is one editing session: the brief, the chosen theme and the
// current document. Mutations are serialized by the session mutex.
type Session struct {
	ID          string     `json:"id"`
	Theme       string     `json:"theme"`
	Temperature float64    `json:"temperature"`
	Brief       page.Brief `json:"brief"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	mu       sync.Mutex
	doc      page.Document
	watchers map[chan page.Document]struct{}
}

// Configure overrides the session theme and temperature. Empty or
// non-positive values leave the current setting alone.
func (s *Session) Configure(theme string, temperature float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme != "" {
		s.Theme = theme
	}
	if temperature > 0 {
		s.Temperature = temperature
	}
}

// Settings returns the current theme and temperature.
func (s *Session) Settings() (theme string, temperature float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Theme, s.Temperature
}

// Modified returns the last mutation time.
func (s *Session) Modified() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Document returns the current document.
func (s *Session) Document() page.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetDocument replaces the document and notifies watchers. A watcher
// that cannot keep up is skipped; it will catch up on the next update.
func (s *Session) SetDocument(doc page.Document) {
	s.mu.Lock()
	s.doc = doc
	s.UpdatedAt = time.Now().UTC()
	for ch := range s.watchers {
		select {
		case ch <- doc:
		default:
		}
	}
	s.mu.Unlock()
}

// Watch registers a document watcher. The returned cancel func must be
// called when the watcher goes away.
func (s *Session) Watch() (<-chan page.Document, func()) {
	ch := make(chan page.Document, 4)
	s.mu.Lock()
	if s.watchers == nil {
		s.watchers = make(map[chan page.Document]struct{})
	}
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// Store is the in-memory session registry. Sessions live for the
// process lifetime or until deleted; nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session for the given theme and brief.
func (st *Store) Create(theme string, temperature float64, brief page.Brief) *Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:          uuid.New().String(),
		Theme:       theme,
		Temperature: temperature,
		Brief:       brief,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// Get looks up a session by ID.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// List returns all sessions, newest first.
func (st *Store) List() []*Session {
	st.mu.RLock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
