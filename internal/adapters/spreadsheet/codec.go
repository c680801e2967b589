// Package spreadsheet reads baseline employee lists from .xlsx workbooks and
// writes session exports back out.
package spreadsheet

import (
	"strings"
)

// Default export layout.
const (
	defaultDateLayout    = "2006-01-02 15:04:05"
	employeesSheet       = "Employees"
	changesSheet         = "Changes"
	donutChangesSheet    = "Donut Changes"
	yes                  = "Yes"
	no                   = "No"
	maxHeaderSearchDepth = 5
)

// Codec converts between workbooks and engine types.
type Codec struct {
	sheet      string
	dateLayout string
}

// Option applies a configuration option to the Codec.
type Option func(*Codec)

// WithSheet reads the baseline from the named sheet instead of the first one.
func WithSheet(name string) Option {
	return func(c *Codec) {
		c.sheet = strings.TrimSpace(name)
	}
}

// WithDateLayout sets the time layout used for modification dates.
func WithDateLayout(layout string) Option {
	return func(c *Codec) {
		if layout != "" {
			c.dateLayout = layout
		}
	}
}

// New constructs a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{dateLayout: defaultDateLayout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// column identifies one recognised baseline column.
type column int

const (
	colID column = iota
	colName
	colPerformance
	colPotential
	colJobTitle
	colJobLevel
	colDepartment
	colManager
	colLocation
)

// headerAliases maps normalized header text to a column.
var headerAliases = map[string]column{
	"employee id":    colID,
	"employee_id":    colID,
	"id":             colID,
	"worker id":      colID,
	"worker":         colName,
	"name":           colName,
	"employee name":  colName,
	"employee":       colName,
	"performance":    colPerformance,
	"potential":      colPotential,
	"job title":      colJobTitle,
	"business title": colJobTitle,
	"job level":      colJobLevel,
	"department":     colDepartment,
	"business unit":  colDepartment,
	"organization":   colDepartment,
	"manager":        colManager,
	"location":       colLocation,
}

var requiredColumns = []struct {
	col  column
	name string
}{
	{colID, "Employee ID"},
	{colName, "Worker"},
	{colPerformance, "Performance"},
	{colPotential, "Potential"},
}

func normalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), " ")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
