// Package reviewsim drives a running review service through a complete
// session: it uploads a generated roster, moves employees concurrently,
// runs a donut exercise and then checks both ledgers against what it sent.
package reviewsim

import (
	"time"

	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// Config holds configuration for a simulated review.
type Config struct {
	BaseURL    string        // Base URL of the service
	Employees  int           // Size of the generated roster
	Moves      int           // Number of moves made in normal mode
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for roster and move generation; 0 picks one
	OutputFile string        // Where to save the exported workbook; empty skips it
	Keep       bool          // Leave the session on the server afterwards
	Verbose    bool          // Log every request
}

// Employee is one baseline row as sent to POST /sessions.
type Employee struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"name"`
	Performance grid.Level `json:"performance"`
	Potential   grid.Level `json:"potential"`
	Department  string     `json:"department,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// Position returns the baseline cell.
func (e Employee) Position() grid.Position {
	p, _ := grid.Encode(e.Performance, e.Potential)
	return p
}

// Move is one planned grid move.
type Move struct {
	EmployeeID  string     `json:"employee_id"`
	Performance grid.Level `json:"performance"`
	Potential   grid.Level `json:"potential"`
	Note        *string    `json:"note,omitempty"`
}

// Position returns the target cell.
func (m Move) Position() grid.Position {
	p, _ := grid.Encode(m.Performance, m.Potential)
	return p
}

// Summary is the session summary returned by the service.
type Summary struct {
	SessionID      string     `json:"session_id"`
	Mode           model.Mode `json:"mode"`
	EmployeeCount  int        `json:"employee_count"`
	PrimaryChanges int        `json:"primary_changes"`
	DonutChanges   int        `json:"donut_changes"`
	BigMovers      int        `json:"big_movers"`
}

// EmployeeState is the current view of one employee.
type EmployeeState struct {
	EmployeeID    string        `json:"employee_id"`
	Position      grid.Position `json:"position"`
	DonutEligible bool          `json:"donut_eligible"`
	BigMover      bool          `json:"big_mover"`
}

// Change is one ledger entry.
type Change struct {
	EmployeeID  string        `json:"employee_id"`
	OldPosition grid.Position `json:"old_position"`
	NewPosition grid.Position `json:"new_position"`
	Note        string        `json:"note"`
}

// Stats holds simulation statistics.
type Stats struct {
	SessionID      string
	Employees      int
	MovesSubmitted int
	MovesFailed    int
	DonutMoves     int
	ScopeRejected  bool
	PrimaryChanges int
	DonutChanges   int
	BigMovers      int
	ExportBytes    int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
