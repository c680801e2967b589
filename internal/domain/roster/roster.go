// Package roster holds the baseline and current state of every employee in
// a session.
//
// The baseline is written once at load. Current state changes only through
// ApplyMove. A Roster is not safe for concurrent use; the owning session
// serializes access.
package roster

import (
	"strings"
	"time"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// Roster stores employees keyed by id, preserving load order.
type Roster struct {
	order    []string
	original map[string]model.Employee
	current  map[string]model.Employee
	now      func() time.Time
}

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithClock overrides the time source used to stamp LastModified.
func WithClock(now func() time.Time) Option {
	return func(r *Roster) {
		if now != nil {
			r.now = now
		}
	}
}

// Load copies baseline into both the original and current collections.
// The whole load is rejected if any id is empty or repeated, or any rating
// is invalid.
func Load(baseline []model.Employee, opts ...Option) (*Roster, error) {
	const op = "roster.load"

	r := &Roster{
		order:    make([]string, 0, len(baseline)),
		original: make(map[string]model.Employee, len(baseline)),
		current:  make(map[string]model.Employee, len(baseline)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, e := range baseline {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return nil, fault.Newf(op, fault.ErrValidation, "row %d: empty employee id", i+1)
		}
		if _, dup := r.original[e.ID]; dup {
			return nil, fault.Newf(op, fault.ErrDuplicateID, "employee id %q appears more than once", e.ID)
		}
		if !e.Performance.Valid() || !e.Potential.Valid() {
			return nil, fault.Newf(op, fault.ErrValidation, "employee %q: invalid rating pair (%v, %v)", e.ID, e.Performance, e.Potential)
		}
		r.order = append(r.order, e.ID)
		r.original[e.ID] = e
		r.current[e.ID] = e
	}
	return r, nil
}

// Len returns the number of employees.
func (r *Roster) Len() int { return len(r.order) }

// Has reports whether id is a known employee.
func (r *Roster) Has(id string) bool {
	_, ok := r.current[id]
	return ok
}

// Get returns the current state of an employee.
func (r *Roster) Get(id string) (model.Employee, error) {
	e, ok := r.current[id]
	if !ok {
		return model.Employee{}, fault.Newf("roster.get", fault.ErrNotFound, "employee %q", id)
	}
	return e, nil
}

// Baseline returns the employee as originally loaded.
func (r *Roster) Baseline(id string) (model.Employee, error) {
	e, ok := r.original[id]
	if !ok {
		return model.Employee{}, fault.Newf("roster.baseline", fault.ErrNotFound, "employee %q", id)
	}
	return e, nil
}

// ApplyMove sets the current rating pair and stamps LastModified.
// Ledger membership is decided by the caller.
func (r *Roster) ApplyMove(id string, performance, potential grid.Level) (model.Employee, error) {
	const op = "roster.apply_move"

	e, ok := r.current[id]
	if !ok {
		return model.Employee{}, fault.Newf(op, fault.ErrNotFound, "employee %q", id)
	}
	if !performance.Valid() || !potential.Valid() {
		return model.Employee{}, fault.Newf(op, fault.ErrValidation, "invalid rating pair (%v, %v)", performance, potential)
	}
	e.Performance = performance
	e.Potential = potential
	e.LastModified = r.now()
	r.current[id] = e
	return e, nil
}

// Reset restores the baseline record for id, clearing LastModified.
func (r *Roster) Reset(id string) (model.Employee, error) {
	b, ok := r.original[id]
	if !ok {
		return model.Employee{}, fault.Newf("roster.reset", fault.ErrNotFound, "employee %q", id)
	}
	r.current[id] = b
	return b, nil
}

// Original returns the baseline collection in load order.
func (r *Roster) Original() []model.Employee {
	return r.collect(r.original)
}

// Current returns the live collection in load order.
func (r *Roster) Current() []model.Employee {
	return r.collect(r.current)
}

// CountByPosition returns how many employees currently sit in each cell.
// Index 0 is unused.
func (r *Roster) CountByPosition() [grid.MaxPosition + 1]int {
	var out [grid.MaxPosition + 1]int
	for _, e := range r.current {
		out[e.Position()]++
	}
	return out
}

func (r *Roster) collect(src map[string]model.Employee) []model.Employee {
	out := make([]model.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, src[id])
	}
	return out
}
