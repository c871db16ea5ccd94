package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session holds the single identification in flight at the kiosk: who tapped
// the card, their projects and the allocation rows used to answer later
// requests. Either every field is set for one user or none is.
//
// There is exactly one Session per server and no notion of a client
// identity, so two kiosks sharing a server will overwrite each other. The
// mutex only keeps concurrent requests from tearing the record.
type Session struct {
	mu sync.RWMutex

	id          string
	user        *User
	userID      string
	projects    []string
	allocations []*Allocation
	startedAt   time.Time
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Begin replaces whatever session was in flight with a new identification
// and returns the new session id. An abandoned session is discarded silently.
func (s *Session) Begin(user *User, projects []string, allocations []*Allocation) (string, error) {
	if user == nil {
		return "", errors.New("session user required")
	}
	if projects == nil {
		projects = []string{}
	}
	if allocations == nil {
		allocations = []*Allocation{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.New().String()
	s.user = user
	s.userID = user.ID
	s.projects = projects
	s.allocations = allocations
	s.startedAt = time.Now()
	return s.id, nil
}

// Clear resets the session to its empty state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.user = nil
	s.userID = ""
	s.projects = nil
	s.allocations = nil
	s.startedAt = time.Time{}
}

// FilterByProject returns the session's allocations for `project`, in their
// original order. It is empty when no user is identified.
func (s *Session) FilterByProject(project string) []*Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByProject(s.allocations, project)
}

// Active reports whether a user is identified.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// ID returns the session id, empty when inactive.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// User returns the identified user or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserID returns the identified user's id.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Projects returns a copy of the user's projects.
func (s *Session) Projects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.projects == nil {
		return nil
	}
	return append([]string{}, s.projects...)
}

// Allocations returns a copy of the user's allocation list.
func (s *Session) Allocations() []*Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.allocations == nil {
		return nil
	}
	return append([]*Allocation{}, s.allocations...)
}

// Age returns how long the session has been in flight.
func (s *Session) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
