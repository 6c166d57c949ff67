package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/kv"
)

// SessionKey is the KV key holding the logged in session.
const SessionKey = "auth:session"

// SessionStore implements auth.SessionStore on top of the KV table. The
// entry carries the session's own expiry so a stale token disappears even
// if the client never restores it.
type SessionStore struct {
	sessions *kv.Typed[auth.Session]
	now      func() time.Time
}

var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store backed by store.
func NewSessionStore(store *KVStore) *SessionStore {
	return &SessionStore{
		sessions: kv.Scoped[auth.Session](store, "auth"),
		now:      store.now,
	}
}

// Load returns the persisted session or auth.ErrNoSession.
func (s *SessionStore) Load(ctx context.Context) (auth.Session, error) {
	sess, err := s.sessions.Get(ctx, "session")
	if IsNotFoundError(err) {
		return auth.Session{}, auth.ErrNoSession
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Save persists sess, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, sess auth.Session) error {
	var err error
	if sess.ExpiresAt.IsZero() {
		err = s.sessions.Set(ctx, "session", sess)
	} else {
		err = s.sessions.SetTTL(ctx, "session", sess, sess.ExpiresAt.Sub(s.now()))
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.sessions.Delete(ctx, "session"); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
