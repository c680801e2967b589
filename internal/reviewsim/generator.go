package reviewsim

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ninebox/internal/domain/grid"
)

var (
	firstNames  = []string{"Ada", "Grace", "Linus", "Barbara", "Ken", "Radia", "Edsger", "Frances", "Dennis", "Margaret"}
	lastNames   = []string{"Lovelace", "Hopper", "Torvalds", "Liskov", "Thompson", "Perlman", "Dijkstra", "Allen", "Ritchie", "Hamilton"}
	departments = []string{"Engineering", "Finance", "Operations", "Sales", "Support"}
	locations   = []string{"Berlin", "Lisbon", "Austin", "Singapore"}
	noteTexts   = []string{"calibrated", "stretch assignment", "new role", "peer feedback", "manager input"}
)

// generator produces a deterministic roster and move plan from one seed.
type generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &generator{src: src, rng: rand.New(src)}
}

func (g *generator) level() grid.Level {
	return grid.Levels[g.rng.IntN(len(grid.Levels))]
}

func (g *generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

// roster creates n employees with unique ids spread over the grid.
func (g *generator) roster(n int) ([]Employee, error) {
	out := make([]Employee, n)
	for i := range out {
		id, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return nil, fmt.Errorf("generate employee id: %w", err)
		}
		out[i] = Employee{
			EmployeeID:  "EMP-" + id.String(),
			Name:        g.pick(firstNames) + " " + g.pick(lastNames),
			Performance: g.level(),
			Potential:   g.level(),
			Department:  g.pick(departments),
			Location:    g.pick(locations),
		}
	}
	return out, nil
}

// moves plans n random moves over roster. Targets may coincide with the
// baseline, which exercises the revert path.
func (g *generator) moves(roster []Employee, n int) []Move {
	out := make([]Move, n)
	for i := range out {
		out[i] = Move{
			EmployeeID:  roster[g.rng.IntN(len(roster))].EmployeeID,
			Performance: g.level(),
			Potential:   g.level(),
			Note:        g.note(),
		}
	}
	return out
}

// donutMoves plans one move for every employee in eligible.
func (g *generator) donutMoves(eligible []string) []Move {
	out := make([]Move, len(eligible))
	for i, id := range eligible {
		note := "donut: " + g.pick(noteTexts)
		out[i] = Move{
			EmployeeID:  id,
			Performance: g.level(),
			Potential:   g.level(),
			Note:        &note,
		}
	}
	return out
}

func (g *generator) note() *string {
	if g.rng.IntN(3) != 0 {
		return nil
	}
	n := g.pick(noteTexts)
	return &n
}
