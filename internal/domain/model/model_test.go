package model_test

import (
	"errors"
	"testing"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEmployee(t *testing.T) {
	convey.Convey("Given an Employee struct", t, func() {
		convey.Convey("When the ratings are valid", func() {
			e := model.Employee{ID: "e1", Name: "Ada", Performance: grid.High, Potential: grid.Medium}

			convey.Convey("Then position and label are derived from the pair", func() {
				convey.So(e.Position(), convey.ShouldEqual, 8)
				convey.So(e.Label(), convey.ShouldEqual, "[H,M]")
			})

			convey.Convey("And changing the pair moves the derived position", func() {
				e.Performance = grid.Low
				convey.So(e.Position(), convey.ShouldEqual, 2)
				convey.So(e.Label(), convey.ShouldEqual, "[L,M]")
			})
		})

		convey.Convey("When the employee has zero values", func() {
			e := model.Employee{}

			convey.Convey("Then it has no position or label", func() {
				convey.So(e.Position(), convey.ShouldEqual, 0)
				convey.So(e.Label(), convey.ShouldEqual, "")
			})
		})

		convey.Convey("When comparing ratings", func() {
			a := model.Employee{ID: "a", Performance: grid.Low, Potential: grid.Low}
			b := model.Employee{ID: "b", Name: "other", Performance: grid.Low, Potential: grid.Low}
			convey.So(a.SameRating(b), convey.ShouldBeTrue)
			b.Potential = grid.High
			convey.So(a.SameRating(b), convey.ShouldBeFalse)
		})
	})
}

func TestChangeEntryDistance(t *testing.T) {
	convey.Convey("Given a change entry", t, func() {
		c := model.ChangeEntry{OldPosition: 1, NewPosition: 9}
		convey.So(c.Distance(), convey.ShouldEqual, 8)
		c.NewPosition = 4
		convey.So(c.Distance(), convey.ShouldEqual, 3)
	})
}

func TestParseMode(t *testing.T) {
	convey.Convey("Given mode text", t, func() {
		m, err := model.ParseMode("DONUT")
		convey.So(err, convey.ShouldBeNil)
		convey.So(m, convey.ShouldEqual, model.ModeDonut)

		m, err = model.ParseMode("normal")
		convey.So(err, convey.ShouldBeNil)
		convey.So(m, convey.ShouldEqual, model.ModeNormal)

		_, err = model.ParseMode("review")
		convey.So(errors.Is(err, fault.ErrValidation), convey.ShouldBeTrue)
	})
}
