package api

import (
	"time"

	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

// baselineEmployee is one element of a JSON baseline upload.
type baselineEmployee struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"name"`
	Performance grid.Level `json:"performance"`
	Potential   grid.Level `json:"potential"`
	JobTitle    string     `json:"job_title,omitempty"`
	JobLevel    string     `json:"job_level,omitempty"`
	Department  string     `json:"department,omitempty"`
	Manager     string     `json:"manager,omitempty"`
	Location    string     `json:"location,omitempty"`
}

func (b baselineEmployee) model() model.Employee {
	return model.Employee{
		ID:          b.EmployeeID,
		Name:        b.Name,
		Performance: b.Performance,
		Potential:   b.Potential,
		JobTitle:    b.JobTitle,
		JobLevel:    b.JobLevel,
		Department:  b.Department,
		Manager:     b.Manager,
		Location:    b.Location,
	}
}

func baselineJSON(e model.Employee) baselineEmployee {
	return baselineEmployee{
		EmployeeID:  e.ID,
		Name:        e.Name,
		Performance: e.Performance,
		Potential:   e.Potential,
		JobTitle:    e.JobTitle,
		JobLevel:    e.JobLevel,
		Department:  e.Department,
		Manager:     e.Manager,
		Location:    e.Location,
	}
}

type employeeResponse struct {
	baselineEmployee
	Position          grid.Position `json:"position"`
	Label             string        `json:"label"`
	BaselinePosition  grid.Position `json:"baseline_position"`
	ModifiedInSession bool          `json:"modified_in_session"`
	BigMover          bool          `json:"big_mover"`
	DonutEligible     bool          `json:"donut_eligible"`
	LastModified      *time.Time    `json:"last_modified,omitempty"`
}

func employeeJSON(v session.EmployeeView) employeeResponse {
	out := employeeResponse{
		baselineEmployee:  baselineJSON(v.Employee),
		Position:          v.Position,
		Label:             v.Label,
		BaselinePosition:  v.BaselinePosition,
		ModifiedInSession: v.Modified,
		BigMover:          v.BigMover,
		DonutEligible:     v.DonutEligible,
	}
	if !v.LastModified.IsZero() {
		t := v.LastModified
		out.LastModified = &t
	}
	return out
}

type changeResponse struct {
	EmployeeID     string        `json:"employee_id"`
	EmployeeName   string        `json:"employee_name"`
	Timestamp      time.Time     `json:"timestamp"`
	OldPerformance grid.Level    `json:"old_performance"`
	OldPotential   grid.Level    `json:"old_potential"`
	OldPosition    grid.Position `json:"old_position"`
	NewPerformance grid.Level    `json:"new_performance"`
	NewPotential   grid.Level    `json:"new_potential"`
	NewPosition    grid.Position `json:"new_position"`
	Distance       int           `json:"distance"`
	Note           string        `json:"note"`
}

func changeJSON(c model.ChangeEntry) changeResponse {
	return changeResponse{
		EmployeeID:     c.EmployeeID,
		EmployeeName:   c.EmployeeName,
		Timestamp:      c.Timestamp,
		OldPerformance: c.OldPerformance,
		OldPotential:   c.OldPotential,
		OldPosition:    c.OldPosition,
		NewPerformance: c.NewPerformance,
		NewPotential:   c.NewPotential,
		NewPosition:    c.NewPosition,
		Distance:       c.Distance(),
		Note:           c.Note,
	}
}

func changesJSON(changes []model.ChangeEntry) []changeResponse {
	out := make([]changeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, changeJSON(c))
	}
	return out
}

type summaryResponse struct {
	SessionID         string                `json:"session_id"`
	CreatedAt         time.Time             `json:"created_at"`
	Mode              model.Mode            `json:"mode"`
	EmployeeCount     int                   `json:"employee_count"`
	PrimaryChanges    int                   `json:"primary_changes"`
	DonutChanges      int                   `json:"donut_changes"`
	BigMovers         int                   `json:"big_movers"`
	BigMoverThreshold int                   `json:"big_mover_threshold"`
	CenterPosition    grid.Position         `json:"center_position"`
	GridCounts        [grid.MaxPosition]int `json:"grid_counts"`
}

func summaryJSON(s session.Summary) summaryResponse {
	return summaryResponse{
		SessionID:         s.ID,
		CreatedAt:         s.CreatedAt,
		Mode:              s.Mode,
		EmployeeCount:     s.Employees,
		PrimaryChanges:    s.PrimaryChanges,
		DonutChanges:      s.DonutChanges,
		BigMovers:         s.BigMovers,
		BigMoverThreshold: s.Threshold,
		CenterPosition:    s.Center,
		GridCounts:        s.GridCounts,
	}
}

type snapshotResponse struct {
	SessionID    string             `json:"session_id"`
	CreatedAt    time.Time          `json:"created_at"`
	ExportedAt   time.Time          `json:"exported_at"`
	Mode         model.Mode         `json:"mode"`
	Original     []baselineEmployee `json:"original"`
	Current      []baselineEmployee `json:"current"`
	Changes      []changeResponse   `json:"changes"`
	DonutChanges []changeResponse   `json:"donut_changes"`
}

func snapshotJSON(s session.Snapshot) snapshotResponse {
	out := snapshotResponse{
		SessionID:    s.SessionID,
		CreatedAt:    s.CreatedAt,
		ExportedAt:   s.ExportedAt,
		Mode:         s.Mode,
		Original:     make([]baselineEmployee, 0, len(s.Original)),
		Current:      make([]baselineEmployee, 0, len(s.Current)),
		Changes:      changesJSON(s.PrimaryChanges),
		DonutChanges: changesJSON(s.DonutChanges),
	}
	for _, e := range s.Original {
		out.Original = append(out.Original, baselineJSON(e))
	}
	for _, e := range s.Current {
		out.Current = append(out.Current, baselineJSON(e))
	}
	return out
}
