// Package repository keeps live review sessions keyed by id.
package repository

import (
	"context"

	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

// Store manages the create/get/destroy lifecycle of sessions. Sessions are
// isolated from each other; nothing mutable is shared between them.
type Store interface {
	// Create loads baseline into a new session and returns it.
	Create(ctx context.Context, baseline []model.Employee) (*session.Session, error)

	// Get returns a live session.
	// Returns an error of kind fault.ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Destroy drops a session and everything it holds.
	Destroy(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
