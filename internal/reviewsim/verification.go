package reviewsim

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
)

// expectation tracks where every employee should be and what each
// ledger should hold, mirrored from the moves the simulation sent.
type expectation struct {
	baseline map[string]grid.Position
	current  map[string]grid.Position
	notes    map[string]string
	donutSet map[string]grid.Position
}

func newExpectation(roster []Employee) *expectation {
	e := &expectation{
		baseline: make(map[string]grid.Position, len(roster)),
		current:  make(map[string]grid.Position, len(roster)),
		notes:    make(map[string]string),
		donutSet: make(map[string]grid.Position),
	}
	for _, emp := range roster {
		e.baseline[emp.EmployeeID] = emp.Position()
		e.current[emp.EmployeeID] = emp.Position()
	}
	return e
}

// apply replays moves in order.
func (e *expectation) apply(moves []Move) {
	for _, m := range moves {
		e.current[m.EmployeeID] = m.Position()
	}
}

// donut records the donut moves that leave the employee off baseline,
// together with their notes.
func (e *expectation) donut(moves []Move) {
	for _, m := range moves {
		if m.Position() == e.baseline[m.EmployeeID] {
			delete(e.donutSet, m.EmployeeID)
			delete(e.notes, m.EmployeeID)
			continue
		}
		e.donutSet[m.EmployeeID] = m.Position()
		if m.Note != nil {
			e.notes[m.EmployeeID] = *m.Note
		}
	}
}

func (e *expectation) drifted() []string {
	var out []string
	for id, pos := range e.current {
		if pos != e.baseline[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (e *expectation) primaryCount() int { return len(e.drifted()) }

func (e *expectation) donutCount() int { return len(e.donutSet) }

// verifyState compares employee positions and both ledgers with the
// expectation and returns the employee list it fetched.
func verifyState(ctx context.Context, client *HTTPClient, base string, want *expectation) ([]EmployeeState, error) {
	var employees []EmployeeState
	if err := client.call(ctx, http.MethodGet, base+"/employees", nil, http.StatusOK, &employees); err != nil {
		return nil, err
	}
	if len(employees) != len(want.current) {
		return nil, fmt.Errorf("service lists %d employees, want %d", len(employees), len(want.current))
	}
	for _, e := range employees {
		if pos := want.current[e.EmployeeID]; e.Position != pos {
			return nil, fmt.Errorf("employee %s at position %d, want %d", e.EmployeeID, e.Position, pos)
		}
	}

	var primary []Change
	if err := client.call(ctx, http.MethodGet, base+"/changes?mode="+model.ModeNormal.String(), nil, http.StatusOK, &primary); err != nil {
		return nil, err
	}
	if err := compareIDs("primary", changeIDs(primary), want.drifted()); err != nil {
		return nil, err
	}
	for _, c := range primary {
		if c.OldPosition != want.baseline[c.EmployeeID] || c.NewPosition != want.current[c.EmployeeID] {
			return nil, fmt.Errorf("primary entry for %s is %d->%d, want %d->%d", c.EmployeeID,
				c.OldPosition, c.NewPosition, want.baseline[c.EmployeeID], want.current[c.EmployeeID])
		}
	}

	var donut []Change
	if err := client.call(ctx, http.MethodGet, base+"/changes?mode="+model.ModeDonut.String(), nil, http.StatusOK, &donut); err != nil {
		return nil, err
	}
	wantDonut := make([]string, 0, len(want.donutSet))
	for id := range want.donutSet {
		wantDonut = append(wantDonut, id)
	}
	sort.Strings(wantDonut)
	if err := compareIDs("donut", changeIDs(donut), wantDonut); err != nil {
		return nil, err
	}
	for _, c := range donut {
		if c.NewPosition != want.donutSet[c.EmployeeID] {
			return nil, fmt.Errorf("donut entry for %s ends at %d, want %d", c.EmployeeID, c.NewPosition, want.donutSet[c.EmployeeID])
		}
		if c.Note != want.notes[c.EmployeeID] {
			return nil, fmt.Errorf("donut note for %s is %q, want %q", c.EmployeeID, c.Note, want.notes[c.EmployeeID])
		}
	}
	return employees, nil
}

func changeIDs(changes []Change) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.EmployeeID)
	}
	sort.Strings(out)
	return out
}

func compareIDs(ledger string, got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s ledger holds %d entries, want %d", ledger, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("%s ledger entry %q, want %q", ledger, got[i], want[i])
		}
	}
	return nil
}
