package repository

import (
	"time"

	"github.com/okian/ninebox/internal/domain/session"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxSessions caps the number of live sessions. Zero or less means unbounded.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		s.maxSessions = n
	}
}

// WithIdleTimeout expires sessions not accessed for d. Zero disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *MemoryStore) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithSweepInterval sets how often idle sessions are looked for.
func WithSweepInterval(d time.Duration) Option {
	return func(s *MemoryStore) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithSessionOptions sets the options every new session is built with.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *MemoryStore) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithIDGenerator overrides how session ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithExpiryHook is called with the id of every session the sweeper drops.
func WithExpiryHook(fn func(id string)) Option {
	return func(s *MemoryStore) {
		s.onExpire = fn
	}
}
