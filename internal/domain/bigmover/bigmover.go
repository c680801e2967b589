// Package bigmover flags employees whose grid displacement from baseline
// meets a threshold.
//
// Distance is the 1-D index distance over the linear 1..9 encoding, not a
// 2-D distance over the two rating axes, so 3->4 counts as 1 while 1->4
// counts as 3. Results are always recomputed from the ledger.
package bigmover

import (
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// DefaultThreshold is the minimum index distance that counts as a big move.
const DefaultThreshold = 3

// Lookup is the read side of a change ledger.
type Lookup interface {
	Get(id string) (model.ChangeEntry, bool)
}

// IsBigMover reports whether id has an entry at least threshold cells from
// its baseline. An employee without an entry never qualifies. A threshold
// below 1 falls back to DefaultThreshold.
func IsBigMover(id string, l Lookup, threshold int) bool {
	e, ok := l.Get(id)
	if !ok {
		return false
	}
	return Qualifies(e.OldPosition, e.NewPosition, threshold)
}

// Qualifies applies the threshold to a pair of positions.
func Qualifies(from, to grid.Position, threshold int) bool {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return grid.Distance(from, to) >= threshold
}
