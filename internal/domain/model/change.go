package model

import (
	"time"

	"github.com/okian/ninebox/internal/domain/grid"
)

// ChangeEntry is the drift of one employee from their baseline.
// Old* always reference the baseline, never the previous move.
type ChangeEntry struct {
	EmployeeID   string
	EmployeeName string
	Timestamp    time.Time

	OldPerformance grid.Level
	OldPotential   grid.Level
	OldPosition    grid.Position

	NewPerformance grid.Level
	NewPotential   grid.Level
	NewPosition    grid.Position

	Note string
}

// Distance is the linear index distance between baseline and current.
func (c ChangeEntry) Distance() int {
	return grid.Distance(c.OldPosition, c.NewPosition)
}
