// Package store owns the session/favorites state: the signed-in user and the
// ordered set of favorited dog IDs. It is the only writer of the persisted
// woofinder-storage.json record; everything else reads through it.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// User is the signed-in visitor. Created on successful sign-in, cleared on
// logout or when the service rejects the session.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// record is the shape of the persisted storage file.
type record struct {
	User      *User    `json:"user,omitempty"`
	Favorites []string `json:"favorites"`
}

// Store holds session state. Mutations are synchronous and immediately
// visible; subscribers run after every effective mutation, in order.
type Store struct {
	mu        sync.RWMutex
	path      string
	user      *User
	favorites []string
	version   uint64
	subs      []func()
	logger    *zap.Logger
}

// New creates a store persisting to path, loading any existing record.
// A malformed or missing file starts the store empty.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read storage file", zap.Error(err))
		}
		return s
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn("discarding malformed storage file", zap.Error(err))
		return s
	}
	s.user = rec.User
	s.favorites = rec.Favorites
	return s
}

// SetUser replaces the current identity. nil signs the visitor out.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	s.user = u
	s.persistLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs)
}

// User returns the current identity, or nil when signed out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AddFavorite appends id unless it is already present.
func (s *Store) AddFavorite(id string) {
	s.mu.Lock()
	if s.containsLocked(id) {
		s.mu.Unlock()
		return
	}
	s.favorites = append(s.favorites, id)
	s.version++
	s.persistLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs)
}

// RemoveFavorite removes every occurrence of id.
func (s *Store) RemoveFavorite(id string) {
	s.mu.Lock()
	if !s.containsLocked(id) {
		s.mu.Unlock()
		return
	}
	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f != id {
			kept = append(kept, f)
		}
	}
	s.favorites = kept
	s.version++
	s.persistLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs)
}

// ToggleFavorite adds id when absent and removes it when present.
func (s *Store) ToggleFavorite(id string) {
	if s.IsFavorite(id) {
		s.RemoveFavorite(id)
		return
	}
	s.AddFavorite(id)
}

// ClearFavorites empties the set. Called on logout.
func (s *Store) ClearFavorites() {
	s.mu.Lock()
	if len(s.favorites) == 0 {
		s.mu.Unlock()
		return
	}
	s.favorites = nil
	s.version++
	s.persistLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs)
}

// Reset clears both identity and favorites. The auth-expiry handler calls
// this when the service rejects the session cookie.
func (s *Store) Reset() {
	s.mu.Lock()
	changed := s.user != nil || len(s.favorites) > 0
	s.user = nil
	if len(s.favorites) > 0 {
		s.version++
	}
	s.favorites = nil
	s.persistLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	if changed {
		notify(subs)
	}
}

// Favorites returns a copy of the set in insertion order.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// IsFavorite reports membership of id.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsLocked(id)
}

// Version is a monotonic counter bumped by every favorites mutation. Results
// derived from the favorites set tag themselves with it to detect staleness.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to run after every effective mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) containsLocked(id string) bool {
	for _, f := range s.favorites {
		if f == id {
			return true
		}
	}
	return false
}

// persistLocked writes the record. Failures are logged, never surfaced:
// in-memory state stays authoritative for the session.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	rec := record{User: s.user, Favorites: s.favorites}
	if rec.Favorites == nil {
		rec.Favorites = []string{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		s.logger.Warn("could not encode storage record", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("could not create storage directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Warn("could not write storage file", zap.Error(err))
	}
}

// subsLocked snapshots subscribers so they can run outside the lock.
func (s *Store) subsLocked() []func() {
	out := make([]func(), len(s.subs))
	copy(out, s.subs)
	return out
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
