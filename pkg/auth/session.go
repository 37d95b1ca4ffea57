package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heyjunin/maaw/pkg/errors"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 24 * time.Hour

type Session struct {
	Token     string    `json:"token"`
	MemberID  string    `json:"user_id"`
	Name      string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sessions keeps logins in memory. Expired sessions are removed when looked
// up or by Prune.
type Sessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]Session
}

func NewSessions(ttl time.Duration, now func() time.Time) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]Session),
	}
}

func (s *Sessions) Create(member Member) Session {
	now := s.now()
	session := Session{
		Token:     uuid.NewString(),
		MemberID:  member.ID,
		Name:      member.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return session
}

// Lookup returns the live session for token.
func (s *Sessions) Lookup(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, errors.FromCode(errors.AuthError, errors.ErrSessionExpired, "unknown session")
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, errors.FromCode(errors.AuthError, errors.ErrSessionExpired, session.MemberID)
	}
	return session, nil
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Prune drops expired sessions and returns how many were removed.
func (s *Sessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
