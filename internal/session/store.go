// Package session keeps one calculator engine per browser session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

// NowFunc returns the current time.
type NowFunc func() time.Time

// Session owns one engine. Access the engine through Store.Do.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *calculator.Engine
	lastSeen time.Time
}

// Store is an in-memory, concurrency-safe session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	historyCapacity int
	maxIdle         time.Duration
	nowFunc         NowFunc
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryCapacity sets the history size of new engines. Zero disables history.
func WithHistoryCapacity(n int) Option {
	return func(s *Store) {
		s.historyCapacity = n
	}
}

// WithMaxIdle sets how long a session may go unused before Sweep removes it.
func WithMaxIdle(d time.Duration) Option {
	return func(s *Store) {
		s.maxIdle = d
	}
}

// WithNowFunc sets a custom clock, mostly for tests.
func WithNowFunc(f NowFunc) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// NewStore returns an empty store. Defaults: history of
// calculator.DefaultHistoryCapacity, 30 minute idle timeout.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:        make(map[string]*Session),
		historyCapacity: calculator.DefaultHistoryCapacity,
		maxIdle:         30 * time.Minute,
		nowFunc:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new session with a fresh engine.
func (s *Store) Create() *Session {
	var opts []calculator.Option
	if s.historyCapacity > 0 {
		opts = append(opts, calculator.WithHistory(s.historyCapacity))
	}

	now := s.nowFunc()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		engine:    calculator.NewEngine(opts...),
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get looks up a session.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Do runs fn against the session's engine while holding the session lock,
// so intents from concurrent requests are applied one at a time.
func (s *Store) Do(id string, fn func(*calculator.Engine) error) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = s.nowFunc()
	return fn(sess.engine)
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the configured maximum and
// returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()

		if idle > s.maxIdle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled. onSweep, when non-nil,
// is called with the number of sessions removed by each sweep.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep(s.nowFunc())
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Collector exposes the number of live sessions as a Prometheus gauge.
func (s *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calculator",
		Name:      "active_sessions",
		Help:      "Number of calculator sessions currently held in memory.",
	}, func() float64 {
		return float64(s.Len())
	})
}
