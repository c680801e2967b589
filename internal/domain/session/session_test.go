package session_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func baseline() []model.Employee {
	return []model.Employee{
		{ID: "E1", Name: "Ada", Performance: grid.Low, Potential: grid.Low},
		{ID: "E2", Name: "Grace", Performance: grid.Medium, Potential: grid.Medium},
		{ID: "E3", Name: "Linus", Performance: grid.High, Potential: grid.Medium},
		{ID: "E4", Name: "Ken", Performance: grid.Medium, Potential: grid.Medium},
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newSession() *session.Session {
	s, err := session.New("s-1", baseline(), session.WithClock(fixedClock()))
	if err != nil {
		panic(err)
	}
	return s
}

func ptr(s string) *string { return &s }

func TestSessionNew(t *testing.T) {
	Convey("Given a baseline list", t, func() {
		Convey("When creating a session", func() {
			s := newSession()

			Convey("Then it starts in NORMAL mode with empty ledgers", func() {
				So(s.ID(), ShouldEqual, "s-1")
				So(s.Mode(), ShouldEqual, model.ModeNormal)
				So(s.CreatedAt().IsZero(), ShouldBeFalse)

				normal, err := s.Changes(model.ModeNormal)
				So(err, ShouldBeNil)
				So(normal, ShouldBeEmpty)
			})
		})

		Convey("When the baseline has a duplicate id", func() {
			in := append(baseline(), model.Employee{ID: "E1", Performance: grid.High, Potential: grid.High})
			s, err := session.New("s-2", in)
			So(s, ShouldBeNil)
			So(errors.Is(err, fault.ErrDuplicateID), ShouldBeTrue)
		})
	})
}

func TestSessionBigMoverScenario(t *testing.T) {
	Convey("Given E1 with baseline (Low,Low) at position 1", t, func() {
		s := newSession()

		Convey("When E1 is moved to (High,High)", func() {
			res, err := s.MoveEmployee("E1", grid.High, grid.High, nil)
			So(err, ShouldBeNil)

			Convey("Then the entry is {old:1,new:9} and E1 is a big mover", func() {
				So(res.Change, ShouldNotBeNil)
				So(res.Change.OldPosition, ShouldEqual, 1)
				So(res.Change.NewPosition, ShouldEqual, 9)
				So(res.Employee.Position, ShouldEqual, 9)
				So(res.Employee.Modified, ShouldBeTrue)
				So(res.Employee.BigMover, ShouldBeTrue)

				big, err := s.IsBigMover("E1")
				So(err, ShouldBeNil)
				So(big, ShouldBeTrue)
			})

			Convey("And moving to (Medium,Medium) updates the entry to {old:1,new:5}", func() {
				res, err := s.MoveEmployee("E1", grid.Medium, grid.Medium, nil)
				So(err, ShouldBeNil)
				So(res.Change.OldPosition, ShouldEqual, 1)
				So(res.Change.NewPosition, ShouldEqual, 5)

				changes, _ := s.Changes(model.ModeNormal)
				So(len(changes), ShouldEqual, 1)

				big, _ := s.IsBigMover("E1")
				So(big, ShouldBeTrue)

				Convey("And moving back to (Low,Low) removes the entry", func() {
					res, err := s.MoveEmployee("E1", grid.Low, grid.Low, nil)
					So(err, ShouldBeNil)
					So(res.Change, ShouldBeNil)
					So(res.Employee.Modified, ShouldBeFalse)

					changes, _ := s.Changes(model.ModeNormal)
					So(changes, ShouldBeEmpty)

					big, _ := s.IsBigMover("E1")
					So(big, ShouldBeFalse)
				})
			})
		})

		Convey("When asking about an unknown employee", func() {
			_, err := s.IsBigMover("nobody")
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestSessionMoveFailures(t *testing.T) {
	Convey("Given a session with one recorded move", t, func() {
		s := newSession()
		_, err := s.MoveEmployee("E3", grid.Low, grid.Medium, ptr("why"))
		So(err, ShouldBeNil)
		before := s.ExportSnapshot()

		Convey("When moving an unknown employee", func() {
			_, err := s.MoveEmployee("nobody", grid.High, grid.High, nil)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When moving to an invalid level", func() {
			_, err := s.MoveEmployee("E3", grid.Level(0), grid.High, nil)

			Convey("Then neither current nor the ledger change", func() {
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
				after := s.ExportSnapshot()
				So(after.Current, ShouldResemble, before.Current)
				So(after.PrimaryChanges, ShouldResemble, before.PrimaryChanges)
			})
		})
	})
}

func TestSessionDonutMode(t *testing.T) {
	Convey("Given a session with a normal-mode move", t, func() {
		s := newSession()
		_, err := s.MoveEmployee("E1", grid.High, grid.Low, nil)
		So(err, ShouldBeNil)
		current := s.ExportSnapshot().Current

		Convey("When donut mode is toggled on", func() {
			So(s.ToggleDonutMode(true), ShouldBeTrue)

			Convey("Then current state is unchanged", func() {
				So(s.Mode(), ShouldEqual, model.ModeDonut)
				So(s.ExportSnapshot().Current, ShouldResemble, current)
			})

			Convey("And the donut ledger is empty while the primary is not", func() {
				donut, err := s.Changes(model.ModeDonut)
				So(err, ShouldBeNil)
				So(donut, ShouldBeEmpty)

				normal, _ := s.Changes(model.ModeNormal)
				So(len(normal), ShouldEqual, 1)
			})

			Convey("And modified flags follow the donut ledger", func() {
				e, err := s.Employee("E1")
				So(err, ShouldBeNil)
				So(e.Modified, ShouldBeFalse)
				So(e.BigMover, ShouldBeTrue)
			})

			Convey("And toggling off again restores NORMAL without touching state", func() {
				So(s.ToggleDonutMode(false), ShouldBeFalse)
				So(s.Mode(), ShouldEqual, model.ModeNormal)
				So(s.ExportSnapshot().Current, ShouldResemble, current)
				e, _ := s.Employee("E1")
				So(e.Modified, ShouldBeTrue)
			})
		})

		Convey("When a center-baseline employee is moved in donut mode", func() {
			s.ToggleDonutMode(true)
			res, err := s.MoveEmployee("E2", grid.High, grid.High, ptr("validated up"))
			So(err, ShouldBeNil)

			Convey("Then the donut ledger records it with the note", func() {
				So(res.Change, ShouldNotBeNil)
				So(res.Change.OldPosition, ShouldEqual, grid.Center)
				So(res.Change.NewPosition, ShouldEqual, 9)
				So(res.Change.Note, ShouldEqual, "validated up")
				So(res.Employee.Modified, ShouldBeTrue)

				donut, _ := s.Changes(model.ModeDonut)
				So(len(donut), ShouldEqual, 1)
			})

			Convey("And current reflects the move", func() {
				e, _ := s.Employee("E2")
				So(e.Position, ShouldEqual, 9)
			})

			Convey("And the primary ledger still mirrors overall drift without the note", func() {
				normal, _ := s.Changes(model.ModeNormal)
				So(len(normal), ShouldEqual, 2)
				So(normal[1].EmployeeID, ShouldEqual, "E2")
				So(normal[1].Note, ShouldEqual, "")
			})
		})

		Convey("When an off-center employee is moved in donut mode", func() {
			s.ToggleDonutMode(true)
			_, err := s.MoveEmployee("E3", grid.Medium, grid.Medium, nil)

			Convey("Then it is out of scope and nothing changes", func() {
				So(errors.Is(err, fault.ErrOutOfScope), ShouldBeTrue)
				e, _ := s.Employee("E3")
				So(e.Position, ShouldEqual, 8)
				normal, _ := s.Changes(model.ModeNormal)
				So(len(normal), ShouldEqual, 1)
			})
		})

		Convey("When an employee now in the center but with an off-center baseline is moved in donut mode", func() {
			_, err := s.MoveEmployee("E1", grid.Medium, grid.Medium, nil)
			So(err, ShouldBeNil)
			s.ToggleDonutMode(true)

			_, err = s.MoveEmployee("E1", grid.High, grid.High, nil)
			So(errors.Is(err, fault.ErrOutOfScope), ShouldBeTrue)
		})
	})
}

func TestSessionNotes(t *testing.T) {
	Convey("Given a session with drift in both ledgers", t, func() {
		s := newSession()
		_, _ = s.MoveEmployee("E1", grid.Medium, grid.Low, nil)
		s.ToggleDonutMode(true)
		_, _ = s.MoveEmployee("E4", grid.Low, grid.Medium, nil)

		Convey("When updating a primary note", func() {
			e, err := s.UpdateNote("E1", "moved after calibration", model.ModeNormal)
			So(err, ShouldBeNil)
			So(e.Note, ShouldEqual, "moved after calibration")
		})

		Convey("When updating a donut note", func() {
			e, err := s.UpdateNote("E4", "confirmed", model.ModeDonut)
			So(err, ShouldBeNil)
			So(e.Note, ShouldEqual, "confirmed")

			normal, _ := s.Changes(model.ModeNormal)
			for _, c := range normal {
				So(c.Note, ShouldNotEqual, "confirmed")
			}
		})

		Convey("When annotating an employee with no donut drift", func() {
			_, err := s.UpdateNote("E1", "x", model.ModeDonut)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When annotating an unknown employee", func() {
			_, err := s.UpdateNote("nobody", "x", model.ModeNormal)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the mode is invalid", func() {
			_, err := s.UpdateNote("E1", "x", model.Mode("audit"))
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
			_, err = s.Changes(model.Mode("audit"))
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestSessionRevertAndSummary(t *testing.T) {
	Convey("Given a session with donut and primary drift", t, func() {
		s := newSession()
		_, _ = s.MoveEmployee("E1", grid.High, grid.High, nil)
		s.ToggleDonutMode(true)
		_, _ = s.MoveEmployee("E2", grid.Low, grid.Low, nil)

		Convey("When summarizing", func() {
			sum := s.Summary()
			So(sum.Employees, ShouldEqual, 4)
			So(sum.PrimaryChanges, ShouldEqual, 2)
			So(sum.DonutChanges, ShouldEqual, 1)
			So(sum.BigMovers, ShouldEqual, 2)
			So(sum.Mode, ShouldEqual, model.ModeDonut)
			So(sum.GridCounts[0], ShouldEqual, 1) // E2 at 1
			So(sum.GridCounts[4], ShouldEqual, 1) // E4 at 5
			So(sum.GridCounts[7], ShouldEqual, 1) // E3 at 8
			So(sum.GridCounts[8], ShouldEqual, 1) // E1 at 9
		})

		Convey("When reverting E2", func() {
			v, err := s.RevertEmployee("E2")
			So(err, ShouldBeNil)

			Convey("Then E2 is back at baseline and out of both ledgers", func() {
				So(v.Position, ShouldEqual, grid.Center)
				So(v.Modified, ShouldBeFalse)
				donut, _ := s.Changes(model.ModeDonut)
				So(donut, ShouldBeEmpty)
				normal, _ := s.Changes(model.ModeNormal)
				So(len(normal), ShouldEqual, 1)
			})
		})

		Convey("When reverting an unknown employee", func() {
			_, err := s.RevertEmployee("nobody")
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("When exporting", func() {
			snap := s.ExportSnapshot()
			So(snap.SessionID, ShouldEqual, "s-1")
			So(snap.Original, ShouldResemble, baseline())
			So(len(snap.Current), ShouldEqual, 4)
			So(len(snap.PrimaryChanges), ShouldEqual, 2)
			So(len(snap.DonutChanges), ShouldEqual, 1)
			So(snap.ExportedAt.After(snap.CreatedAt), ShouldBeTrue)
		})

		Convey("When listing employees", func() {
			views := s.Employees()
			So(len(views), ShouldEqual, 4)
			So(views[0].ID, ShouldEqual, "E1")
			So(views[1].DonutEligible, ShouldBeTrue)
			So(views[2].DonutEligible, ShouldBeFalse)
		})
	})
}

func TestSessionInvariants(t *testing.T) {
	Convey("Given a random-ish walk of moves", t, func() {
		s := newSession()
		moves := []struct {
			id   string
			p, q grid.Level
		}{
			{"E1", grid.High, grid.Low}, {"E2", grid.Low, grid.High}, {"E1", grid.Low, grid.Low},
			{"E3", grid.High, grid.High}, {"E2", grid.Medium, grid.Medium}, {"E4", grid.High, grid.High},
			{"E3", grid.High, grid.Medium}, {"E1", grid.Medium, grid.High},
		}
		for _, m := range moves {
			_, err := s.MoveEmployee(m.id, m.p, m.q, nil)
			So(err, ShouldBeNil)
		}

		Convey("Then a primary entry exists iff current differs from original", func() {
			snap := s.ExportSnapshot()
			inLedger := map[string]bool{}
			for _, c := range snap.PrimaryChanges {
				inLedger[c.EmployeeID] = true
			}
			for i := range snap.Current {
				drift := !snap.Current[i].SameRating(snap.Original[i])
				So(inLedger[snap.Current[i].ID], ShouldEqual, drift)
			}
			So(inLedger["E1"], ShouldBeTrue)
			So(inLedger["E2"], ShouldBeFalse)
			So(inLedger["E3"], ShouldBeFalse)
			So(inLedger["E4"], ShouldBeTrue)
		})
	})
}

func TestSessionConcurrentAccess(t *testing.T) {
	Convey("Given concurrent readers and writers", t, func() {
		s := newSession()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				lv := grid.Levels[i%3]
				_, _ = s.MoveEmployee("E1", lv, grid.High, nil)
			}(i)
			go func() {
				defer wg.Done()
				_ = s.Employees()
				_, _ = s.Changes(model.ModeNormal)
			}()
		}
		wg.Wait()

		Convey("Then the ledger holds at most one entry for E1", func() {
			changes, _ := s.Changes(model.ModeNormal)
			So(len(changes), ShouldBeLessThanOrEqualTo, 1)
		})
	})
}
