// Package session holds the datasets loaded by one user between questions.
// Datasets are immutable once ingested; an upload replaces the previous one
// wholesale, so questions always run against a consistent snapshot.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
)

// Session is one user's loaded datasets.
type Session struct {
	ID         string
	Forecast   *dataset.Dataset
	Master     *dataset.Dataset
	UploadedAt time.Time
}

// Store is a mutex-guarded session registry. Sessions are never shared
// across users; each holds its own dataset pair.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session with the given ID, or a fresh one with a
// new ID when id is empty or unknown.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			return sess
		}
	}

	sess := &Session{ID: uuid.New().String()}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns an existing session.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SetForecast replaces a session's forecast dataset.
func (s *Store) SetForecast(id string, d *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Forecast = d
		sess.UploadedAt = time.Now()
	}
}

// SetMaster replaces a session's style master dataset.
func (s *Store) SetMaster(id string, d *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Master = d
		sess.UploadedAt = time.Now()
	}
}

// Datasets returns the session's current dataset pair. Either may be nil.
func (s *Store) Datasets(id string) (forecast, master *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.Forecast, sess.Master
	}
	return nil, nil
}
