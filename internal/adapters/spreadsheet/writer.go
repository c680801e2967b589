package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

var employeeHeaders = []any{
	"Employee ID", "Worker", "Job Title", "Job Level", "Department", "Manager", "Location",
	"Performance", "Potential", "Original Position",
	"Current Performance", "Current Potential", "Position", "Label",
	"Modified in Session", "Modification Date", "Change Notes",
	"Donut Exercise Position", "Donut Exercise Label", "Donut Exercise Notes",
}

var changeHeaders = []any{
	"Employee ID", "Worker", "Timestamp",
	"Old Performance", "Old Potential", "Old Position",
	"New Performance", "New Potential", "New Position",
	"Distance", "Notes",
}

// WriteExport writes snap as an .xlsx workbook to w.
//
// The Employees sheet lists every employee with baseline and current
// ratings; "Modified in Session" reflects the primary ledger and the donut
// columns reflect the donut ledger. The Changes and Donut Changes sheets
// list each ledger in first-creation order.
func (c *Codec) WriteExport(ctx context.Context, w io.Writer, snap session.Snapshot) error {
	const op = "spreadsheet.write_export"

	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), employeesSheet); err != nil {
		return fault.Wrap(op, err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fault.Wrap(op, err)
	}

	if err := c.writeEmployees(f, header, snap); err != nil {
		return fault.Wrap(op, err)
	}
	if err := c.writeChanges(f, header, changesSheet, snap.PrimaryChanges); err != nil {
		return fault.Wrap(op, err)
	}
	if err := c.writeChanges(f, header, donutChangesSheet, snap.DonutChanges); err != nil {
		return fault.Wrap(op, err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fault.Wrap(op, err)
	}
	return nil
}

func (c *Codec) writeEmployees(f *excelize.File, header int, snap session.Snapshot) error {
	if err := writeHeader(f, employeesSheet, header, employeeHeaders); err != nil {
		return err
	}

	primary := indexChanges(snap.PrimaryChanges)
	donut := indexChanges(snap.DonutChanges)
	current := make(map[string]model.Employee, len(snap.Current))
	for _, e := range snap.Current {
		current[e.ID] = e
	}

	for i, orig := range snap.Original {
		cur, ok := current[orig.ID]
		if !ok {
			cur = orig
		}
		change, modified := primary[orig.ID]

		row := []any{
			orig.ID, orig.Name, orig.JobTitle, orig.JobLevel, orig.Department, orig.Manager, orig.Location,
			orig.Performance.String(), orig.Potential.String(), int(orig.Position()),
			cur.Performance.String(), cur.Potential.String(), int(cur.Position()), cur.Label(),
			yesNo(modified), c.formatTime(change.Timestamp, modified), change.Note,
			"", "", "",
		}
		if d, ok := donut[orig.ID]; ok {
			label, _ := grid.Label(d.NewPosition)
			row[17], row[18], row[19] = int(d.NewPosition), label, d.Note
		}
		if err := setRow(f, employeesSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) writeChanges(f *excelize.File, header int, sheet string, changes []model.ChangeEntry) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, header, changeHeaders); err != nil {
		return err
	}
	for i, ch := range changes {
		row := []any{
			ch.EmployeeID, ch.EmployeeName, c.formatTime(ch.Timestamp, true),
			ch.OldPerformance.String(), ch.OldPotential.String(), int(ch.OldPosition),
			ch.NewPerformance.String(), ch.NewPotential.String(), int(ch.NewPosition),
			ch.Distance(), ch.Note,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers []any) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %q row %d: %w", sheet, row, err)
	}
	return nil
}

func indexChanges(changes []model.ChangeEntry) map[string]model.ChangeEntry {
	out := make(map[string]model.ChangeEntry, len(changes))
	for _, ch := range changes {
		out[ch.EmployeeID] = ch
	}
	return out
}

// formatTime renders t, or "" when the row has no modification to date.
func (c *Codec) formatTime(t time.Time, modified bool) string {
	if !modified || t.IsZero() {
		return ""
	}
	return t.Format(c.dateLayout)
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
