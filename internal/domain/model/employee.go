// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/ninebox/internal/domain/grid"
)

// Employee is one row of the reviewed population.
// Position and label are always derived from the rating pair.
type Employee struct {
	ID          string     // stable identifier from the source spreadsheet
	Name        string     // display name
	Performance grid.Level // performance axis rating
	Potential   grid.Level // potential axis rating

	// Descriptive metadata carried through to export untouched.
	JobTitle   string
	JobLevel   string
	Department string
	Manager    string
	Location   string

	// LastModified is zero until the employee is first moved.
	LastModified time.Time
}

// Position returns the grid cell of the current rating pair.
// An employee with invalid ratings has position 0.
func (e Employee) Position() grid.Position {
	p, err := grid.Encode(e.Performance, e.Potential)
	if err != nil {
		return 0
	}
	return p
}

// Label returns the display label of the current position, or "" if the
// ratings are invalid.
func (e Employee) Label() string {
	l, err := grid.Label(e.Position())
	if err != nil {
		return ""
	}
	return l
}

// SameRating reports whether two records sit at the same rating pair.
func (e Employee) SameRating(o Employee) bool {
	return e.Performance == o.Performance && e.Potential == o.Potential
}
