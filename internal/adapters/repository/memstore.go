// Package repository keeps live review sessions keyed by id.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
	"github.com/okian/ninebox/pkg/metrics"
)

const defaultSweepInterval = time.Minute

var _ Store = (*MemoryStore)(nil)

// slot pairs a session with the last time it was handed out.
type slot struct {
	sess       *session.Session
	lastAccess time.Time
}

// MemoryStore is an in-memory Store. Sessions live until destroyed, until
// the store is closed, or until they sit idle past the configured timeout.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*slot
	closed   bool

	maxSessions   int
	idleTimeout   time.Duration
	sweepInterval time.Duration
	sessionOpts   []session.Option
	newID         func() string
	now           func() time.Time
	onExpire      func(id string)

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore constructs a store. When an idle timeout is configured a
// background sweeper runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]*slot),
		sweepInterval: defaultSweepInterval,
		newID:         func() string { return uuid.NewString() },
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateActiveSessions(0)
	if s.idleTimeout > 0 {
		s.startSweeper(ctx)
	}
	return s
}

// Create implements Store.Create.
func (s *MemoryStore) Create(ctx context.Context, baseline []model.Employee) (*session.Session, error) {
	const op = "repository.create"

	s.mu.RLock()
	closed, full := s.closed, s.maxSessions > 0 && len(s.sessions) >= s.maxSessions
	s.mu.RUnlock()
	if closed {
		return nil, fault.NewKind(op, ErrClosed)
	}
	if full {
		return nil, fault.NewKind(op, ErrCapacity)
	}

	sess, err := session.New(s.newID(), baseline, s.sessionOpts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fault.NewKind(op, ErrClosed)
	}
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		return nil, fault.NewKind(op, ErrCapacity)
	}
	s.sessions[sess.ID()] = &slot{sess: sess, lastAccess: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.RecordSessionCreated(len(baseline))
	metrics.UpdateActiveSessions(count)
	return sess, nil
}

// Get implements Store.Get and refreshes the session's idle clock.
func (s *MemoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.sessions[id]
	if !ok {
		return nil, fault.Newf("repository.get", fault.ErrNotFound, "session %q", id)
	}
	sl.lastAccess = s.now()
	return sl.sess, nil
}

// Destroy implements Store.Destroy.
func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return fault.Newf("repository.destroy", fault.ErrNotFound, "session %q", id)
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.RecordSessionEnded("closed")
	metrics.UpdateActiveSessions(count)
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweeper and drops every session.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.sessions = make(map[string]*slot)
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	metrics.UpdateActiveSessions(0)
	return nil
}

// SweepExpired drops sessions idle longer than the timeout and returns
// their ids.
func (s *MemoryStore) SweepExpired() []string {
	if s.idleTimeout <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var expired []string
	for id, sl := range s.sessions {
		if sl.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	for _, id := range expired {
		metrics.RecordSessionEnded("expired")
		if s.onExpire != nil {
			s.onExpire(id)
		}
	}
	if len(expired) > 0 {
		metrics.UpdateActiveSessions(count)
	}
	return expired
}

// startSweeper runs SweepExpired on every tick until stopped.
func (s *MemoryStore) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.SweepExpired()
			}
		}
	}()
}
