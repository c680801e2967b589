package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/ledger"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

// tick returns a clock advancing one minute per call.
func tick() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newRoster() *roster.Roster {
	r, err := roster.Load([]model.Employee{
		{ID: "e1", Name: "Ada", Performance: grid.Low, Potential: grid.Low},
		{ID: "e2", Name: "Grace", Performance: grid.Medium, Potential: grid.Medium},
		{ID: "e3", Name: "Linus", Performance: grid.High, Potential: grid.High},
		{ID: "e4", Name: "Ken", Performance: grid.Medium, Potential: grid.Medium},
	})
	if err != nil {
		panic(err)
	}
	return r
}

func ptr(s string) *string { return &s }

func TestLedgerRecordMove(t *testing.T) {
	Convey("Given an empty primary ledger", t, func() {
		l := ledger.New(newRoster(), ledger.WithClock(tick()))

		Convey("When an employee is moved off baseline", func() {
			e, ok, err := l.RecordMove("e1", grid.High, grid.High, nil)

			Convey("Then one entry diffs baseline against the new cell", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(e.EmployeeName, ShouldEqual, "Ada")
				So(e.OldPosition, ShouldEqual, 1)
				So(e.OldPerformance, ShouldEqual, grid.Low)
				So(e.NewPosition, ShouldEqual, 9)
				So(e.NewPotential, ShouldEqual, grid.High)
				So(l.Len(), ShouldEqual, 1)
			})

			Convey("And a second move overwrites the entry instead of appending", func() {
				e2, ok, err := l.RecordMove("e1", grid.Medium, grid.Medium, nil)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(l.Len(), ShouldEqual, 1)
				So(e2.OldPosition, ShouldEqual, 1)
				So(e2.OldPerformance, ShouldEqual, grid.Low)
				So(e2.OldPotential, ShouldEqual, grid.Low)
				So(e2.NewPosition, ShouldEqual, 5)
				So(e2.Timestamp.After(e.Timestamp), ShouldBeTrue)

				got, found := l.Get("e1")
				So(found, ShouldBeTrue)
				So(got, ShouldResemble, e2)
			})

			Convey("And moving back to baseline deletes the entry", func() {
				_, ok, err := l.RecordMove("e1", grid.Low, grid.Low, nil)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(l.Len(), ShouldEqual, 0)
				_, found := l.Get("e1")
				So(found, ShouldBeFalse)
			})
		})

		Convey("When an employee is moved to their own baseline cell", func() {
			_, ok, err := l.RecordMove("e3", grid.High, grid.High, ptr("no-op"))

			Convey("Then no entry is created and the note is discarded", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(l.List(), ShouldBeEmpty)
			})
		})

		Convey("When the employee is unknown", func() {
			_, _, err := l.RecordMove("ghost", grid.High, grid.High, nil)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
			So(l.Len(), ShouldEqual, 0)
		})

		Convey("When the level is not a valid member", func() {
			_, _, err := l.RecordMove("e1", grid.High, grid.Level(0), nil)
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
			So(l.Len(), ShouldEqual, 0)
		})

		Convey("When a failed call follows a successful one", func() {
			before, _, _ := l.RecordMove("e1", grid.Medium, grid.Low, ptr("keep"))
			_, _, err := l.RecordMove("e1", grid.Level(9), grid.Low, ptr("lost"))

			Convey("Then the existing entry is left exactly as it was", func() {
				So(err, ShouldNotBeNil)
				got, _ := l.Get("e1")
				So(got, ShouldResemble, before)
			})
		})
	})
}

func TestLedgerNotes(t *testing.T) {
	Convey("Given a ledger with one drifted employee", t, func() {
		l := ledger.New(newRoster())
		_, _, err := l.RecordMove("e1", grid.Medium, grid.Low, ptr("first"))
		So(err, ShouldBeNil)

		Convey("When moving again without a note", func() {
			e, _, _ := l.RecordMove("e1", grid.High, grid.Low, nil)
			So(e.Note, ShouldEqual, "first")
		})

		Convey("When moving again with a note", func() {
			e, _, _ := l.RecordMove("e1", grid.High, grid.Low, ptr("second"))
			So(e.Note, ShouldEqual, "second")
		})

		Convey("When moving again with an empty note", func() {
			e, _, _ := l.RecordMove("e1", grid.High, grid.Low, ptr(""))
			So(e.Note, ShouldEqual, "")
		})

		Convey("When updating the note directly", func() {
			e, err := l.UpdateNote("e1", "calibrated with HRBP")
			So(err, ShouldBeNil)
			So(e.Note, ShouldEqual, "calibrated with HRBP")
			got, _ := l.Get("e1")
			So(got.Note, ShouldEqual, "calibrated with HRBP")
		})

		Convey("When annotating an employee without drift", func() {
			_, err := l.UpdateNote("e2", "x")
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When reverting and drifting again", func() {
			_, _, _ = l.RecordMove("e1", grid.Low, grid.Low, nil)
			e, _, _ := l.RecordMove("e1", grid.High, grid.Low, nil)

			Convey("Then the old note is gone", func() {
				So(e.Note, ShouldEqual, "")
			})
		})
	})
}

func TestLedgerOrdering(t *testing.T) {
	Convey("Given several employees moved in sequence", t, func() {
		l := ledger.New(newRoster(), ledger.WithClock(tick()))
		_, _, _ = l.RecordMove("e3", grid.Low, grid.Low, nil)
		_, _, _ = l.RecordMove("e1", grid.High, grid.High, nil)
		_, _, _ = l.RecordMove("e2", grid.High, grid.Medium, nil)

		ids := func() []string {
			var out []string
			for _, e := range l.List() {
				out = append(out, e.EmployeeID)
			}
			return out
		}

		Convey("Then List follows first-creation order", func() {
			So(ids(), ShouldResemble, []string{"e3", "e1", "e2"})
		})

		Convey("And updating an earlier entry does not reorder it", func() {
			_, _, _ = l.RecordMove("e3", grid.Medium, grid.Low, nil)
			So(ids(), ShouldResemble, []string{"e3", "e1", "e2"})
		})

		Convey("And explicit removal drops only that entry", func() {
			So(l.Remove("e1"), ShouldBeTrue)
			So(l.Remove("e1"), ShouldBeFalse)
			So(ids(), ShouldResemble, []string{"e3", "e2"})
		})

		Convey("And List returns copies", func() {
			list := l.List()
			list[0].Note = "mutated"
			got, _ := l.Get(list[0].EmployeeID)
			So(got.Note, ShouldEqual, "")
		})
	})
}

func TestDonutLedger(t *testing.T) {
	Convey("Given a donut ledger scoped to the center cell", t, func() {
		r := newRoster()
		d := ledger.NewDonut(r, grid.Center)

		So(d.Name(), ShouldEqual, "donut")
		So(d.Scope(), ShouldEqual, grid.Center)

		Convey("When moving a center-baseline employee", func() {
			e, ok, err := d.RecordMove("e2", grid.High, grid.Medium, ptr("strong quarter"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(e.OldPosition, ShouldEqual, grid.Center)
			So(e.NewPosition, ShouldEqual, 8)
			So(e.Note, ShouldEqual, "strong quarter")

			Convey("And moving back to center removes the entry", func() {
				_, ok, err := d.RecordMove("e2", grid.Medium, grid.Medium, nil)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(d.Len(), ShouldEqual, 0)
			})
		})

		Convey("When moving an employee whose baseline is off center", func() {
			_, _, err := d.RecordMove("e1", grid.High, grid.High, nil)
			So(errors.Is(err, fault.ErrOutOfScope), ShouldBeTrue)
			So(d.Len(), ShouldEqual, 0)
		})

		Convey("When the employee currently sits in the center but started elsewhere", func() {
			_, err := r.ApplyMove("e1", grid.Medium, grid.Medium)
			So(err, ShouldBeNil)

			_, _, err = d.RecordMove("e1", grid.High, grid.Low, nil)

			Convey("Then the move is still out of scope", func() {
				So(errors.Is(err, fault.ErrOutOfScope), ShouldBeTrue)
			})
		})

		Convey("When checking eligibility", func() {
			ok, err := d.Eligible("e4")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = d.Eligible("e3")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			_, err = d.Eligible("ghost")
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When an unscoped ledger is asked", func() {
			ok, err := ledger.New(r).Eligible("e3")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})
	})
}
