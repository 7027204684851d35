// Package memstore holds the process-wide verification session map.
// Sessions are short-lived and low-cardinality; a single RWMutex gives
// per-token atomicity without cross-session locking.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/monicaDelao/brokerx/internal/domain"
)

// SessionStore is an in-memory store of in-flight verification sessions
// keyed by opaque token. Expired sessions are treated as absent: they are
// evicted lazily on read and swept by Janitor.
type SessionStore struct {
	mu   sync.RWMutex
	m    map[string]*domain.VerificationSession
	ttl  time.Duration
	nowF func() time.Time
}

// NewSessionStore returns a store whose sessions expire ttl after creation.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		m:    make(map[string]*domain.VerificationSession),
		ttl:  ttl,
		nowF: time.Now,
	}
}

// Put stores the session under its token, stamping CreatedAt and ExpiresAt.
func (s *SessionStore) Put(sess *domain.VerificationSession) {
	now := s.nowF().UTC()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.Token] = sess
}

// Get returns a copy of the session for token. A copy keeps callers from
// mutating shared state outside Update.
func (s *SessionStore) Get(token string) (*domain.VerificationSession, bool) {
	s.mu.RLock()
	sess, ok := s.m[token]
	var cp domain.VerificationSession
	if ok {
		cp = *sess
	}
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !cp.ExpiresAt.After(s.nowF().UTC()) {
		s.Delete(token)
		return nil, false
	}
	return &cp, true
}

// MarkEmailVerified flips the session's email_verified flag in place.
// Returns false when the token is unknown or expired.
func (s *SessionStore) MarkEmailVerified(token string) bool {
	now := s.nowF().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return false
	}
	sess.EmailVerified = true
	return true
}

// Delete removes the session for token, if any.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
}

// FindByEmailCode scans live sessions for one whose email code equals code
// and returns a copy. Sessions whose email phase already completed are
// skipped, so a used activation link cannot match twice. The linear scan is
// fine at this cardinality; an indexed lookup would only pay off with far
// more sessions.
func (s *SessionStore) FindByEmailCode(code string) (*domain.VerificationSession, bool) {
	now := s.nowF().UTC()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.m {
		if sess.EmailCode == code && !sess.EmailVerified && sess.ExpiresAt.After(now) {
			cp := *sess
			return &cp, true
		}
	}
	return nil, false
}

// Len reports the number of stored sessions, including not-yet-swept
// expired ones.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Janitor sweeps expired sessions every interval until ctx is cancelled.
// Bounds memory growth from abandoned registrations.
func (s *SessionStore) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *SessionStore) sweep() {
	now := s.nowF().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.m {
		if !sess.ExpiresAt.After(now) {
			delete(s.m, token)
		}
	}
}
