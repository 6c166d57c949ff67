package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the snapshot handed to subscribers.
type State struct {
	User    *User
	Loading bool
}

type stateListener struct {
	id int
	fn func(State)
}

// Service is the in-process authentication context. It owns the current
// session, mirrors it to a SessionStore and tells subscribers when the user
// or the loading flag changes. Requests are never retried or cancelled; a
// late response simply updates the state.
type Service struct {
	api    API
	store  SessionStore
	now    func() time.Time
	logger zerolog.Logger

	mu        sync.Mutex
	session   *Session
	loading   bool
	listeners []stateListener
	nextSubID int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithNow overrides the time source used for expiry checks.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a logged-out Service.
func NewService(api API, store SessionStore, opts ...Option) *Service {
	s := &Service{
		api:    api,
		store:  store,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a previously persisted session. A missing session is not an
// error. Expired sessions and sessions whose profile cannot be fetched are
// discarded.
func (s *Service) Restore(ctx context.Context) error {
	s.update(func() { s.loading = true })
	defer s.update(func() { s.loading = false })

	sess, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if sess.Token == "" {
		s.discard(ctx)
		return nil
	}

	if sess.Expired(s.now()) {
		s.logger.Info().Time("expires_at", sess.ExpiresAt).Msg("stored session expired")
		s.discard(ctx)
		return ErrSessionExpired
	}

	if sess.User.ID == 0 {
		user, err := s.api.Profile(ctx, sess.Token)
		if err != nil {
			s.discard(ctx)
			return fmt.Errorf("fetch profile: %w", err)
		}
		sess.User = user
		s.persist(ctx, sess)
	}

	s.update(func() { s.session = &sess })
	return nil
}

// Login authenticates against the API and stores the resulting session. On
// failure the returned error carries the server's message verbatim.
func (s *Service) Login(ctx context.Context, email, password string) error {
	s.update(func() { s.loading = true })

	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.update(func() { s.loading = false })
		return surface(err, "login failed")
	}

	s.persist(ctx, sess)
	s.update(func() {
		s.session = &sess
		s.loading = false
	})

	s.logger.Info().Int64("user_id", sess.User.ID).Str("role", string(sess.User.Role)).Msg("logged in")
	return nil
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, r Registration) error {
	s.update(func() { s.loading = true })

	sess, err := s.api.Register(ctx, r)
	if err != nil {
		s.update(func() { s.loading = false })
		return surface(err, "registration failed")
	}

	s.persist(ctx, sess)
	s.update(func() {
		s.session = &sess
		s.loading = false
	})

	s.logger.Info().Int64("user_id", sess.User.ID).Msg("registered")
	return nil
}

// Logout clears the in-memory and persisted session. The server is not
// contacted. The in-memory session is cleared even if the store fails.
func (s *Service) Logout(ctx context.Context) error {
	s.update(func() { s.session = nil })

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Invalidate drops the session after the API rejected its token.
func (s *Service) Invalidate() {
	if !s.IsAuthenticated() {
		return
	}
	s.logger.Warn().Msg("token rejected by api, clearing session")
	if err := s.Logout(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear rejected session")
	}
}

// Current returns the logged in user, if any.
func (s *Service) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return User{}, false
	}
	return s.session.User, true
}

// Session returns a copy of the current session, if any.
func (s *Service) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Token returns the bearer token of the current session or "".
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// IsAuthenticated reports whether a user is logged in.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Loading reports whether a login, registration or restore is in flight.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Subscribe registers fn to be called with the new State after every change.
func (s *Service) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, stateListener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l stateListener) bool {
			return l.id == id
		})
	}
}

// update applies mutate under the lock and then notifies listeners outside it.
func (s *Service) update(mutate func()) {
	s.mu.Lock()
	mutate()
	state := State{Loading: s.loading}
	if s.session != nil {
		u := s.session.User
		state.User = &u
	}
	subs := make([]stateListener, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.Unlock()

	for _, l := range subs {
		l.fn(state)
	}
}

func (s *Service) persist(ctx context.Context, sess Session) {
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
	}
}

func (s *Service) discard(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear stored session")
	}
}

func surface(err error, fallback string) error {
	if err.Error() == "" {
		return errors.New(fallback)
	}
	return err
}
