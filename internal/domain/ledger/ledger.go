// Package ledger tracks each employee's drift from their baseline.
//
// A Ledger keeps at most one entry per employee. The entry is created on
// first drift, overwritten on later moves and deleted as soon as the
// employee is moved back to the baseline cell. It is a diff against the
// baseline, not a history: intermediate moves are not retained.
//
// A scoped Ledger (see WithScope) only accepts employees whose baseline
// sits in the scope cell; the donut validation workflow uses one scoped to
// the grid center.
package ledger

import (
	"slices"
	"time"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// BaselineSource resolves an employee's baseline record.
type BaselineSource interface {
	Baseline(id string) (model.Employee, error)
}

// Ledger is a diff-from-baseline log. It is not safe for concurrent use.
type Ledger struct {
	name     string
	baseline BaselineSource
	scope    grid.Position // 0 means unscoped
	now      func() time.Time

	entries map[string]model.ChangeEntry
	order   []string // first-creation order
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithName labels the ledger in errors and metrics.
func WithName(name string) Option {
	return func(l *Ledger) {
		if name != "" {
			l.name = name
		}
	}
}

// WithScope restricts the ledger to employees whose baseline is at pos.
func WithScope(pos grid.Position) Option {
	return func(l *Ledger) {
		if pos.Valid() {
			l.scope = pos
		}
	}
}

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an empty ledger over the given baseline.
func New(src BaselineSource, opts ...Option) *Ledger {
	l := &Ledger{
		name:     "primary",
		baseline: src,
		now:      time.Now,
		entries:  make(map[string]model.ChangeEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDonut creates a ledger scoped to the center cell.
func NewDonut(src BaselineSource, center grid.Position, opts ...Option) *Ledger {
	return New(src, append([]Option{WithName("donut"), WithScope(center)}, opts...)...)
}

// Name returns the ledger label.
func (l *Ledger) Name() string { return l.name }

// Scope returns the scope cell, or 0 for an unscoped ledger.
func (l *Ledger) Scope() grid.Position { return l.scope }

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Eligible reports whether id may be recorded in this ledger.
func (l *Ledger) Eligible(id string) (bool, error) {
	b, err := l.baseline.Baseline(id)
	if err != nil {
		return false, fault.Wrap("ledger.eligible", err)
	}
	return l.scope == 0 || b.Position() == l.scope, nil
}

// RecordMove reconciles the entry for id with a move to the given pair.
//
// All validation happens before any mutation, so a failed call leaves the
// ledger untouched. A nil note keeps whatever note the entry already has;
// a non-nil note replaces it. It returns the entry and true if the employee
// still drifts from baseline, or false if the move was a full revert.
func (l *Ledger) RecordMove(id string, performance, potential grid.Level, note *string) (model.ChangeEntry, bool, error) {
	op := "ledger." + l.name + ".record_move"

	base, err := l.baseline.Baseline(id)
	if err != nil {
		return model.ChangeEntry{}, false, fault.Wrap(op, err)
	}
	newPos, err := grid.Encode(performance, potential)
	if err != nil {
		return model.ChangeEntry{}, false, fault.Wrap(op, err)
	}
	basePos := base.Position()
	if l.scope != 0 && basePos != l.scope {
		return model.ChangeEntry{}, false, fault.Newf(op, fault.ErrOutOfScope,
			"employee %q has baseline position %d, ledger accepts only %d", id, basePos, l.scope)
	}

	if newPos == basePos {
		l.Remove(id)
		return model.ChangeEntry{}, false, nil
	}

	prev, exists := l.entries[id]
	entry := model.ChangeEntry{
		EmployeeID:     id,
		EmployeeName:   base.Name,
		Timestamp:      l.now(),
		OldPerformance: base.Performance,
		OldPotential:   base.Potential,
		OldPosition:    basePos,
		NewPerformance: performance,
		NewPotential:   potential,
		NewPosition:    newPos,
		Note:           prev.Note,
	}
	if note != nil {
		entry.Note = *note
	}
	if !exists {
		l.order = append(l.order, id)
	}
	l.entries[id] = entry
	return entry, true, nil
}

// UpdateNote replaces the note on an existing entry. Notes only attach to
// real drift, so an employee at baseline has nothing to annotate.
func (l *Ledger) UpdateNote(id, note string) (model.ChangeEntry, error) {
	e, ok := l.entries[id]
	if !ok {
		return model.ChangeEntry{}, fault.Newf("ledger."+l.name+".update_note", fault.ErrNotFound, "no change recorded for employee %q", id)
	}
	e.Note = note
	l.entries[id] = e
	return e, nil
}

// Get returns the entry for id, if any.
func (l *Ledger) Get(id string) (model.ChangeEntry, bool) {
	e, ok := l.entries[id]
	return e, ok
}

// List returns all entries in first-creation order. Later updates do not
// reorder entries.
func (l *Ledger) List() []model.ChangeEntry {
	out := make([]model.ChangeEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id])
	}
	return out
}

// Remove deletes the entry for id and reports whether one existed.
func (l *Ledger) Remove(id string) bool {
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)
	if i := slices.Index(l.order, id); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
	return true
}
