package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"renewals-authorization/pricing"
	"renewals-authorization/repository"
)

// DefaultSessionIdleTimeout is how long an untouched session is kept
const DefaultSessionIdleTimeout = 30 * time.Minute

// SessionConfig tunes a SessionService.
// IdleTimeout 0 selects DefaultSessionIdleTimeout; a negative value keeps sessions until deleted.
type SessionConfig struct {
	Form        FormConfig
	IdleTimeout time.Duration
}

type session struct {
	form *RenewalForm
	// last access in Unix milliseconds
	touched atomic.Int64
}

// SessionService keeps one RenewalForm per operator session.
// Sessions idle for longer than the idle timeout are discarded when a new
// session is created, unless a store action is still in flight.
type SessionService struct {
	store       repository.DocumentStoreInterface
	engine      *pricing.Engine
	logger      *zap.Logger
	formCfg     FormConfig
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService creates a new SessionService
func NewSessionService(store repository.DocumentStoreInterface, engine *pricing.Engine, logger *zap.Logger, cfg SessionConfig) *SessionService {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultSessionIdleTimeout
	}
	now := cfg.Form.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		store:       store,
		engine:      engine,
		logger:      logger,
		formCfg:     cfg.Form,
		idleTimeout: cfg.IdleTimeout,
		now:         now,
		sessions:    make(map[string]*session),
	}
}

// Ensure SessionService implements SessionServiceInterface
var _ SessionServiceInterface = (*SessionService)(nil)

// Create starts a new session with an empty form
func (s *SessionService) Create() (string, *RenewalForm) {
	id := uuid.NewString()
	form := NewRenewalForm(s.store, s.engine, s.logger.With(zap.String("session", id)), s.formCfg)
	sess := &session{form: form}
	sess.touched.Store(s.now().UnixMilli())

	s.mu.Lock()
	pruned := s.pruneIdle()
	s.sessions[id] = sess
	s.mu.Unlock()

	if pruned > 0 {
		s.logger.Info("🧹 Create: discarded idle renewal sessions", zap.Int("count", pruned))
	}
	s.logger.Debug("Create: started renewal session", zap.String("session", id))
	return id, form
}

// pruneIdle drops sessions idle past the timeout; callers hold mu
func (s *SessionService) pruneIdle() int {
	if s.idleTimeout < 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout).UnixMilli()
	pruned := 0
	for id, sess := range s.sessions {
		if sess.touched.Load() >= cutoff || sess.form.Loading() {
			continue
		}
		delete(s.sessions, id)
		pruned++
	}
	return pruned
}

// Get returns the form of an existing session and marks it as used
func (s *SessionService) Get(id string) (*RenewalForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touched.Store(s.now().UnixMilli())
	return sess.form, nil
}

// Delete discards a session and its form state
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)

	s.logger.Debug("Delete: discarded renewal session", zap.String("session", id))
	return nil
}

// Count returns the number of open sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
