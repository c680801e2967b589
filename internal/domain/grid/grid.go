// Package grid maps a (performance, potential) rating pair onto the 3x3
// talent grid and back.
//
// Positions are numbered 1..9: position = rowOffset(performance) +
// colOffset(potential) with rowOffset {Low:0, Medium:3, High:6} and
// colOffset {Low:1, Medium:2, High:3}.
package grid

import (
	"fmt"
	"strings"

	"github.com/okian/ninebox/internal/domain/fault"
)

// Level is one rating on either axis. The zero value is invalid.
type Level uint8

// Rating levels, ordered low to high.
const (
	Low Level = iota + 1
	Medium
	High
)

// Levels lists every valid Level in ascending order.
var Levels = [...]Level{Low, Medium, High}

// Position is a grid cell index in 1..9.
type Position int

// Grid bounds and the ambiguous middle cell.
const (
	MinPosition Position = 1
	MaxPosition Position = 9
	Center      Position = 5
)

var labels = [...]string{
	1: "[L,L]", 2: "[L,M]", 3: "[L,H]",
	4: "[M,L]", 5: "[M,M]", 6: "[M,H]",
	7: "[H,L]", 8: "[H,M]", 9: "[H,H]",
}

// Valid reports whether l is Low, Medium or High.
func (l Level) Valid() bool { return l >= Low && l <= High }

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Short returns the one-letter form used in labels.
func (l Level) Short() string {
	if !l.Valid() {
		return "?"
	}
	return l.String()[:1]
}

// ParseLevel accepts Low/Medium/High or L/M/H in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return Low, nil
	case "medium", "m":
		return Medium, nil
	case "high", "h":
		return High, nil
	default:
		return 0, fault.Newf("grid.parse_level", fault.ErrValidation, "unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fault.Newf("grid.marshal_level", fault.ErrValidation, "invalid level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Valid reports whether p is within 1..9.
func (p Position) Valid() bool { return p >= MinPosition && p <= MaxPosition }

// Encode returns the grid position of a rating pair.
func Encode(performance, potential Level) (Position, error) {
	if !performance.Valid() || !potential.Valid() {
		return 0, fault.Newf("grid.encode", fault.ErrValidation,
			"invalid rating pair (%v, %v)", performance, potential)
	}
	row := Position(performance-Low) * 3
	col := Position(potential-Low) + 1
	return row + col, nil
}

// MustEncode is Encode for values already known to be valid.
func MustEncode(performance, potential Level) Position {
	p, err := Encode(performance, potential)
	if err != nil {
		panic(err)
	}
	return p
}

// Decode is the inverse of Encode.
func Decode(p Position) (performance, potential Level, err error) {
	if !p.Valid() {
		return 0, 0, fault.Newf("grid.decode", fault.ErrValidation, "position %d outside %d..%d", p, MinPosition, MaxPosition)
	}
	i := int(p - 1)
	return Levels[i/3], Levels[i%3], nil
}

// Label returns the display label of p, e.g. "[H,H]" for 9.
func Label(p Position) (string, error) {
	if !p.Valid() {
		return "", fault.Newf("grid.label", fault.ErrValidation, "position %d outside %d..%d", p, MinPosition, MaxPosition)
	}
	return labels[p], nil
}

// Distance is the 1-D index distance between two positions. Cells that are
// adjacent across a row boundary (3 and 4) are 1 apart, while a pure
// performance step (1 and 4) is 3 apart.
func Distance(a, b Position) int {
	d := int(b - a)
	if d < 0 {
		return -d
	}
	return d
}
