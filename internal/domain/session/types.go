package session

import (
	"time"

	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// EmployeeView is an employee's current state plus derived indicators.
type EmployeeView struct {
	model.Employee

	Position         grid.Position
	Label            string
	BaselinePosition grid.Position
	Modified         bool // an entry exists in the active mode's ledger
	BigMover         bool
	DonutEligible    bool
}

// MoveResult is returned by MoveEmployee.
type MoveResult struct {
	Employee EmployeeView
	Change   *model.ChangeEntry
}

// Summary describes a session at a glance.
type Summary struct {
	ID             string
	CreatedAt      time.Time
	Mode           model.Mode
	Employees      int
	PrimaryChanges int
	DonutChanges   int
	BigMovers      int
	Threshold      int
	Center         grid.Position
	GridCounts     [grid.MaxPosition]int // index 0 is position 1
}

// Snapshot is the export view of a session.
type Snapshot struct {
	SessionID      string
	CreatedAt      time.Time
	ExportedAt     time.Time
	Mode           model.Mode
	Original       []model.Employee
	Current        []model.Employee
	PrimaryChanges []model.ChangeEntry
	DonutChanges   []model.ChangeEntry
}
