package spreadsheet

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// ParseBaseline reads employees from the first worksheet (or the configured
// one). The header row must name the id, name, performance and potential
// columns; it may be preceded by up to a few title rows. Blank rows are
// skipped. Duplicate ids are left for the session to reject.
func (c *Codec) ParseBaseline(ctx context.Context, r io.Reader) ([]model.Employee, error) {
	const op = "spreadsheet.parse_baseline"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fault.WrapKind(op, fault.ErrValidation, err)
	}
	defer func() { _ = file.Close() }()

	sheet := c.sheet
	if sheet == "" {
		sheet = file.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fault.Newf(op, fault.ErrValidation, "no worksheet found")
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fault.WrapKind(op, fault.ErrValidation, err)
	}
	if len(rows) == 0 {
		return nil, fault.Newf(op, fault.ErrValidation, "worksheet %q is empty", sheet)
	}

	headerRow, index, err := locateHeader(rows)
	if err != nil {
		return nil, fault.Wrap(op, err)
	}

	out := make([]model.Employee, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		rowNum := i + 1 // 1-based, as shown in spreadsheet tools

		perf, err := grid.ParseLevel(cellValue(row, index[colPerformance]))
		if err != nil {
			return nil, fault.Newf(op, fault.ErrValidation, "row %d: performance: %v", rowNum, err)
		}
		pot, err := grid.ParseLevel(cellValue(row, index[colPotential]))
		if err != nil {
			return nil, fault.Newf(op, fault.ErrValidation, "row %d: potential: %v", rowNum, err)
		}
		id := cellValue(row, index[colID])
		if id == "" {
			return nil, fault.Newf(op, fault.ErrValidation, "row %d: missing employee id", rowNum)
		}

		out = append(out, model.Employee{
			ID:          id,
			Name:        cellValue(row, index[colName]),
			Performance: perf,
			Potential:   pot,
			JobTitle:    cellValue(row, lookup(index, colJobTitle)),
			JobLevel:    cellValue(row, lookup(index, colJobLevel)),
			Department:  cellValue(row, lookup(index, colDepartment)),
			Manager:     cellValue(row, lookup(index, colManager)),
			Location:    cellValue(row, lookup(index, colLocation)),
		})
	}
	return out, nil
}

// locateHeader finds the first row, among the leading few, that names
// every required column, and maps columns to cell indexes.
func locateHeader(rows [][]string) (int, map[column]int, error) {
	var missing string
	for r := 0; r < len(rows) && r < maxHeaderSearchDepth; r++ {
		index := make(map[column]int)
		for i, h := range rows[r] {
			col, ok := headerAliases[normalizeHeader(h)]
			if !ok {
				continue
			}
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
		missing = ""
		for _, req := range requiredColumns {
			if _, ok := index[req.col]; !ok {
				missing = req.name
				break
			}
		}
		if missing == "" {
			return r, index, nil
		}
	}
	return 0, nil, fault.Newf("spreadsheet.header", fault.ErrValidation, "missing required column %q", missing)
}

func lookup(index map[column]int, col column) int {
	if i, ok := index[col]; ok {
		return i
	}
	return -1
}
