// Package service wires the session store, spreadsheet codec, logging and
// metrics together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/okian/ninebox/internal/adapters/repository"
	"github.com/okian/ninebox/internal/adapters/spreadsheet"
	"github.com/okian/ninebox/internal/domain/bigmover"
	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
	"github.com/okian/ninebox/pkg/logger"
	"github.com/okian/ninebox/pkg/metrics"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Service implements the API dependencies for the talent-review engine.
type Service struct {
	mu sync.RWMutex

	store *repository.MemoryStore
	codec *spreadsheet.Codec

	// Configuration
	threshold     int
	center        grid.Position
	maxSessions   int
	idleTimeout   time.Duration
	sweepInterval time.Duration
	sheetName     string
	now           func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBigMoverThreshold sets the cell distance that flags a big mover.
func WithBigMoverThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithCenterPosition sets the cell the donut exercise is scoped to.
func WithCenterPosition(pos int) Option {
	return func(s *Service) {
		if p := grid.Position(pos); p.Valid() {
			s.center = p
		}
	}
}

// WithMaxSessions caps concurrently live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSessions = n
		}
	}
}

// WithIdleTimeout expires sessions idle longer than d. Zero disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.idleTimeout = d
		}
	}
}

// WithSweepInterval sets how often idle sessions are looked for.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithSheetName reads uploaded baselines from the named worksheet.
func WithSheetName(name string) Option {
	return func(s *Service) {
		s.sheetName = name
	}
}

// WithClock overrides the time source handed to sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		threshold:     bigmover.DefaultThreshold,
		center:        grid.Center,
		maxSessions:   64,
		sweepInterval: time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the session store and spreadsheet codec.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting review service...")

	s.codec = spreadsheet.New(spreadsheet.WithSheet(s.sheetName))
	s.store = repository.NewMemoryStore(ctx,
		repository.WithMaxSessions(s.maxSessions),
		repository.WithIdleTimeout(s.idleTimeout),
		repository.WithSweepInterval(s.sweepInterval),
		repository.WithSessionOptions(
			session.WithBigMoverThreshold(s.threshold),
			session.WithCenter(s.center),
			session.WithClock(s.now),
		),
		repository.WithExpiryHook(func(id string) {
			s.logger.Info(context.Background(), "session expired", logger.String("session_id", id))
		}),
	)

	s.started = true
	s.logger.Info(ctx, "review service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Int("bigMoverThreshold", s.threshold),
		logger.Int("center", int(s.center)),
		logger.Duration("idleTimeout", s.idleTimeout),
	)
	return nil
}

// Stop closes the store, dropping every live session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping review service...")
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "review service stopped")
}

// CreateSession loads baseline into a new session.
func (s *Service) CreateSession(ctx context.Context, baseline []model.Employee) (session.Summary, error) {
	store, err := s.activeStore()
	if err != nil {
		return session.Summary{}, err
	}
	sess, err := store.Create(ctx, baseline)
	if err != nil {
		return session.Summary{}, s.fail(ctx, "create_session", err)
	}
	s.logger.Info(ctx, "session created",
		logger.String("session_id", sess.ID()),
		logger.Int("employees", len(baseline)),
	)
	return sess.Summary(), nil
}

// ImportSession parses an .xlsx baseline from r and loads it into a new
// session.
func (s *Service) ImportSession(ctx context.Context, r io.Reader) (session.Summary, error) {
	if _, err := s.activeStore(); err != nil {
		return session.Summary{}, err
	}
	baseline, err := s.codec.ParseBaseline(ctx, r)
	if err != nil {
		return session.Summary{}, s.fail(ctx, "import_session", err)
	}
	return s.CreateSession(ctx, baseline)
}

// Session returns the summary of one session.
func (s *Service) Session(ctx context.Context, id string) (session.Summary, error) {
	sess, err := s.lookup(ctx, "get_session", id)
	if err != nil {
		return session.Summary{}, err
	}
	return sess.Summary(), nil
}

// DestroySession discards a session and its ledgers.
func (s *Service) DestroySession(ctx context.Context, id string) error {
	store, err := s.activeStore()
	if err != nil {
		return err
	}
	if err := store.Destroy(ctx, id); err != nil {
		return s.fail(ctx, "destroy_session", err)
	}
	s.logger.Info(ctx, "session destroyed", logger.String("session_id", id))
	return nil
}

// Employees lists the current view of every employee in a session.
func (s *Service) Employees(ctx context.Context, id string) ([]session.EmployeeView, error) {
	sess, err := s.lookup(ctx, "list_employees", id)
	if err != nil {
		return nil, err
	}
	return sess.Employees(), nil
}

// Employee returns the current view of one employee.
func (s *Service) Employee(ctx context.Context, id, employeeID string) (session.EmployeeView, error) {
	sess, err := s.lookup(ctx, "get_employee", id)
	if err != nil {
		return session.EmployeeView{}, err
	}
	view, err := sess.Employee(employeeID)
	if err != nil {
		return session.EmployeeView{}, s.fail(ctx, "get_employee", err)
	}
	return view, nil
}

// Move places an employee in a new cell under the session's active mode.
func (s *Service) Move(ctx context.Context, id, employeeID string, performance, potential grid.Level, note *string) (session.MoveResult, error) {
	sess, err := s.lookup(ctx, "move", id)
	if err != nil {
		return session.MoveResult{}, err
	}
	mode := sess.Mode()
	res, err := sess.MoveEmployee(employeeID, performance, potential, note)
	if err != nil {
		return session.MoveResult{}, s.fail(ctx, "move", err)
	}

	outcome := "drift"
	if res.Change == nil {
		outcome = "baseline"
	}
	metrics.RecordMove(mode.String(), outcome)
	s.logger.Debug(ctx, "employee moved",
		logger.String("session_id", id),
		logger.String("employee_id", employeeID),
		logger.String("mode", mode.String()),
		logger.Int("position", int(res.Employee.Position)),
		logger.String("outcome", outcome),
	)
	return res, nil
}

// UpdateNote replaces the note on an existing ledger entry.
func (s *Service) UpdateNote(ctx context.Context, id, employeeID, note string, mode model.Mode) (model.ChangeEntry, error) {
	sess, err := s.lookup(ctx, "update_note", id)
	if err != nil {
		return model.ChangeEntry{}, err
	}
	entry, err := sess.UpdateNote(employeeID, note, mode)
	if err != nil {
		return model.ChangeEntry{}, s.fail(ctx, "update_note", err)
	}
	metrics.RecordNoteUpdated(mode.String())
	return entry, nil
}

// ToggleDonut switches the session between donut and normal mode.
func (s *Service) ToggleDonut(ctx context.Context, id string, enabled bool) (bool, error) {
	sess, err := s.lookup(ctx, "toggle_donut", id)
	if err != nil {
		return false, err
	}
	enabled = sess.ToggleDonutMode(enabled)
	metrics.RecordModeToggle(sess.Mode().String())
	s.logger.Info(ctx, "donut mode toggled",
		logger.String("session_id", id),
		logger.Bool("enabled", enabled),
	)
	return enabled, nil
}

// Changes lists a ledger in first-creation order. An empty mode selects the
// session's active mode.
func (s *Service) Changes(ctx context.Context, id string, mode model.Mode) ([]model.ChangeEntry, error) {
	sess, err := s.lookup(ctx, "list_changes", id)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = sess.Mode()
	}
	changes, err := sess.Changes(mode)
	if err != nil {
		return nil, s.fail(ctx, "list_changes", err)
	}
	return changes, nil
}

// BigMover reports whether an employee's overall drift meets the threshold.
func (s *Service) BigMover(ctx context.Context, id, employeeID string) (bool, error) {
	sess, err := s.lookup(ctx, "big_mover", id)
	if err != nil {
		return false, err
	}
	big, err := sess.IsBigMover(employeeID)
	if err != nil {
		return false, s.fail(ctx, "big_mover", err)
	}
	return big, nil
}

// Revert returns an employee to their baseline cell.
func (s *Service) Revert(ctx context.Context, id, employeeID string) (session.EmployeeView, error) {
	sess, err := s.lookup(ctx, "revert", id)
	if err != nil {
		return session.EmployeeView{}, err
	}
	view, err := sess.RevertEmployee(employeeID)
	if err != nil {
		return session.EmployeeView{}, s.fail(ctx, "revert", err)
	}
	metrics.RecordMove(sess.Mode().String(), "reverted")
	s.logger.Debug(ctx, "employee reverted",
		logger.String("session_id", id),
		logger.String("employee_id", employeeID),
	)
	return view, nil
}

// Snapshot returns the raw export snapshot of a session.
func (s *Service) Snapshot(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(ctx, "export", id)
	if err != nil {
		return session.Snapshot{}, err
	}
	metrics.RecordExport(FormatJSON)
	return sess.ExportSnapshot(), nil
}

// ExportWorkbook writes the session as an .xlsx workbook to w.
func (s *Service) ExportWorkbook(ctx context.Context, id string, w io.Writer) error {
	sess, err := s.lookup(ctx, "export", id)
	if err != nil {
		return err
	}
	if err := s.codec.WriteExport(ctx, w, sess.ExportSnapshot()); err != nil {
		return s.fail(ctx, "export", err)
	}
	metrics.RecordExport(FormatXLSX)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"maxSessions":       s.maxSessions,
		"bigMoverThreshold": s.threshold,
		"centerPosition":    int(s.center),
		"idleTimeoutSec":    int(s.idleTimeout / time.Second),
	}
	if s.started {
		stats["activeSessions"] = s.store.Count(context.Background())
	}
	return stats
}

func (s *Service) activeStore() (*repository.MemoryStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) lookup(ctx context.Context, op, id string) (*session.Session, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return sess, nil
}

// fail records a domain error and returns it unchanged.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	kind := errorLabel(err)
	metrics.RecordDomainError(op, kind)
	s.logger.Warn(ctx, "operation failed",
		logger.String("operation", op),
		logger.String("kind", kind),
		logger.Error(err),
	)
	return err
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, repository.ErrCapacity):
		return "capacity"
	case errors.Is(err, repository.ErrClosed):
		return "closed"
	default:
		return fault.Label(err)
	}
}
