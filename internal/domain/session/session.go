// Package session is the state machine behind one reviewer's grid session.
//
// A Session owns the employee roster, the primary change ledger (overall
// drift from baseline) and the donut ledger (validation of the center-cell
// population). The mode flag only decides which ledger a move is recorded
// in; it never hides or resets employees. Current state is the single
// source of truth for where an employee is now, whichever mode moved them.
//
// All methods are safe for concurrent use. Errors from the roster and the
// ledgers are returned unchanged.
package session

import (
	"sync"
	"time"

	"github.com/okian/ninebox/internal/domain/bigmover"
	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/ledger"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/roster"
)

// Session is a single in-memory review session.
type Session struct {
	mu sync.RWMutex

	id        string
	createdAt time.Time
	mode      model.Mode

	roster  *roster.Roster
	primary *ledger.Ledger
	donut   *ledger.Ledger

	threshold int
	center    grid.Position
	now       func() time.Time
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithBigMoverThreshold sets the index distance that flags a big mover.
func WithBigMoverThreshold(threshold int) Option {
	return func(s *Session) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithCenter sets the cell the donut ledger is scoped to.
func WithCenter(pos grid.Position) Option {
	return func(s *Session) {
		if pos.Valid() {
			s.center = pos
		}
	}
}

// WithClock overrides the time source for the session and its ledgers.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New loads baseline into a fresh session in NORMAL mode.
func New(id string, baseline []model.Employee, opts ...Option) (*Session, error) {
	s := &Session{
		id:        id,
		mode:      model.ModeNormal,
		threshold: bigmover.DefaultThreshold,
		center:    grid.Center,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r, err := roster.Load(baseline, roster.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	s.roster = r
	s.primary = ledger.New(r, ledger.WithClock(s.now))
	s.donut = ledger.NewDonut(r, s.center, ledger.WithClock(s.now))
	s.createdAt = s.now()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the baseline was loaded.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Mode returns the active mode.
func (s *Session) Mode() model.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ToggleDonutMode switches between DONUT and NORMAL and reports whether
// donut mode is now enabled. Employee state is not touched.
func (s *Session) ToggleDonutMode(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.mode = model.ModeDonut
	} else {
		s.mode = model.ModeNormal
	}
	return enabled
}

// MoveEmployee records a move in the ledger of the active mode and applies
// it to the employee's current state.
//
// In DONUT mode the donut ledger's scope guard runs first, and the primary
// ledger is then reconciled so it keeps reflecting overall drift; a supplied
// note attaches to the donut entry only. The returned Change is nil when
// the move returned the employee to baseline.
func (s *Session) MoveEmployee(id string, performance, potential grid.Level, note *string) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry   model.ChangeEntry
		drifted bool
		err     error
	)
	switch s.mode {
	case model.ModeDonut:
		entry, drifted, err = s.donut.RecordMove(id, performance, potential, note)
		if err != nil {
			return MoveResult{}, err
		}
		if _, _, err = s.primary.RecordMove(id, performance, potential, nil); err != nil {
			return MoveResult{}, err
		}
	default:
		entry, drifted, err = s.primary.RecordMove(id, performance, potential, note)
		if err != nil {
			return MoveResult{}, err
		}
	}

	if _, err := s.roster.ApplyMove(id, performance, potential); err != nil {
		return MoveResult{}, err
	}

	res := MoveResult{Employee: s.viewLocked(id)}
	if drifted {
		res.Change = &entry
	}
	return res, nil
}

// RevertEmployee returns id to its baseline cell and clears it from both
// ledgers.
func (s *Session) RevertEmployee(id string) (EmployeeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.roster.Reset(id); err != nil {
		return EmployeeView{}, err
	}
	s.primary.Remove(id)
	s.donut.Remove(id)
	return s.viewLocked(id), nil
}

// UpdateNote replaces the note on the entry for id in the ledger of mode.
func (s *Session) UpdateNote(id, note string, mode model.Mode) (model.ChangeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledgerFor(mode)
	if err != nil {
		return model.ChangeEntry{}, err
	}
	if !s.roster.Has(id) {
		return model.ChangeEntry{}, fault.Newf("session.update_note", fault.ErrNotFound, "employee %q", id)
	}
	return l.UpdateNote(id, note)
}

// Changes lists the entries of the ledger for mode in first-creation order.
func (s *Session) Changes(mode model.Mode) ([]model.ChangeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.ledgerFor(mode)
	if err != nil {
		return nil, err
	}
	return l.List(), nil
}

// IsBigMover reports whether id's overall drift meets the threshold.
func (s *Session) IsBigMover(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.roster.Has(id) {
		return false, fault.Newf("session.is_big_mover", fault.ErrNotFound, "employee %q", id)
	}
	return bigmover.IsBigMover(id, s.primary, s.threshold), nil
}

// Employee returns the current view of one employee.
func (s *Session) Employee(id string) (EmployeeView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.roster.Has(id) {
		return EmployeeView{}, fault.Newf("session.employee", fault.ErrNotFound, "employee %q", id)
	}
	return s.viewLocked(id), nil
}

// Employees returns the current view of every employee in load order.
func (s *Session) Employees() []EmployeeView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := s.roster.Current()
	out := make([]EmployeeView, 0, len(cur))
	for _, e := range cur {
		out = append(out, s.viewLocked(e.ID))
	}
	return out
}

// Summary returns counters describing the session.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		ID:             s.id,
		CreatedAt:      s.createdAt,
		Mode:           s.mode,
		Employees:      s.roster.Len(),
		PrimaryChanges: s.primary.Len(),
		DonutChanges:   s.donut.Len(),
		Threshold:      s.threshold,
		Center:         s.center,
	}
	counts := s.roster.CountByPosition()
	copy(sum.GridCounts[:], counts[grid.MinPosition:])
	for _, c := range s.primary.List() {
		if bigmover.Qualifies(c.OldPosition, c.NewPosition, s.threshold) {
			sum.BigMovers++
		}
	}
	return sum
}

// ExportSnapshot captures everything the spreadsheet writer needs.
func (s *Session) ExportSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		SessionID:      s.id,
		CreatedAt:      s.createdAt,
		ExportedAt:     s.now(),
		Mode:           s.mode,
		Original:       s.roster.Original(),
		Current:        s.roster.Current(),
		PrimaryChanges: s.primary.List(),
		DonutChanges:   s.donut.List(),
	}
}

func (s *Session) ledgerFor(mode model.Mode) (*ledger.Ledger, error) {
	switch mode {
	case model.ModeNormal:
		return s.primary, nil
	case model.ModeDonut:
		return s.donut, nil
	default:
		return nil, fault.Newf("session.ledger", fault.ErrValidation, "unknown mode %q", mode)
	}
}

// viewLocked builds the view for a known id. Callers hold s.mu.
func (s *Session) viewLocked(id string) EmployeeView {
	cur, _ := s.roster.Get(id)
	base, _ := s.roster.Baseline(id)
	active := s.primary
	if s.mode == model.ModeDonut {
		active = s.donut
	}
	_, modified := active.Get(id)
	eligible, _ := s.donut.Eligible(id)

	return EmployeeView{
		Employee:         cur,
		Position:         cur.Position(),
		Label:            cur.Label(),
		BaselinePosition: base.Position(),
		Modified:         modified,
		BigMover:         bigmover.IsBigMover(id, s.primary, s.threshold),
		DonutEligible:    eligible,
	}
}
