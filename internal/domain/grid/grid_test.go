package grid_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEncodeDecode(t *testing.T) {
	Convey("Given every rating pair", t, func() {
		Convey("Then decode(encode(p,q)) returns the pair", func() {
			for _, p := range grid.Levels {
				for _, q := range grid.Levels {
					pos, err := grid.Encode(p, q)
					So(err, ShouldBeNil)
					So(pos.Valid(), ShouldBeTrue)

					gotP, gotQ, err := grid.Decode(pos)
					So(err, ShouldBeNil)
					So(gotP, ShouldEqual, p)
					So(gotQ, ShouldEqual, q)
				}
			}
		})

		Convey("Then encode(decode(n)) returns n for every position", func() {
			for n := grid.MinPosition; n <= grid.MaxPosition; n++ {
				p, q, err := grid.Decode(n)
				So(err, ShouldBeNil)
				So(grid.MustEncode(p, q), ShouldEqual, n)
			}
		})

		Convey("Then the corners and center follow the row/column offsets", func() {
			So(grid.MustEncode(grid.Low, grid.Low), ShouldEqual, 1)
			So(grid.MustEncode(grid.Low, grid.High), ShouldEqual, 3)
			So(grid.MustEncode(grid.Medium, grid.Medium), ShouldEqual, grid.Center)
			So(grid.MustEncode(grid.High, grid.Low), ShouldEqual, 7)
			So(grid.MustEncode(grid.High, grid.High), ShouldEqual, 9)
		})
	})

	Convey("Given invalid input", t, func() {
		Convey("When encoding a zero level", func() {
			_, err := grid.Encode(0, grid.High)
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
		})

		Convey("When decoding out-of-range positions", func() {
			for _, n := range []grid.Position{0, 10, -1} {
				_, _, err := grid.Decode(n)
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
			}
		})
	})
}

func TestLabel(t *testing.T) {
	Convey("Given the label lookup", t, func() {
		Convey("Then labels read [performance,potential]", func() {
			l, err := grid.Label(9)
			So(err, ShouldBeNil)
			So(l, ShouldEqual, "[H,H]")

			l, err = grid.Label(2)
			So(err, ShouldBeNil)
			So(l, ShouldEqual, "[L,M]")

			l, err = grid.Label(7)
			So(err, ShouldBeNil)
			So(l, ShouldEqual, "[H,L]")
		})

		Convey("Then every label agrees with the decoded pair", func() {
			for n := grid.MinPosition; n <= grid.MaxPosition; n++ {
				p, q, _ := grid.Decode(n)
				l, err := grid.Label(n)
				So(err, ShouldBeNil)
				So(l, ShouldEqual, "["+p.Short()+","+q.Short()+"]")
			}
		})

		Convey("Then out-of-range positions are rejected", func() {
			_, err := grid.Label(0)
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestParseLevel(t *testing.T) {
	Convey("Given level text", t, func() {
		cases := map[string]grid.Level{
			"Low": grid.Low, "low": grid.Low, " L ": grid.Low,
			"MEDIUM": grid.Medium, "m": grid.Medium,
			"High": grid.High, "h": grid.High,
		}
		for in, want := range cases {
			got, err := grid.ParseLevel(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		Convey("When the text is not a level", func() {
			_, err := grid.ParseLevel("Very High")
			So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
		})
	})

	Convey("Given JSON encoded levels", t, func() {
		var v struct {
			P grid.Level `json:"p"`
		}
		So(json.Unmarshal([]byte(`{"p":"Medium"}`), &v), ShouldBeNil)
		So(v.P, ShouldEqual, grid.Medium)

		out, err := json.Marshal(v)
		So(err, ShouldBeNil)
		So(string(out), ShouldEqual, `{"p":"Medium"}`)

		So(json.Unmarshal([]byte(`{"p":"Extreme"}`), &v), ShouldNotBeNil)
	})
}

func TestDistance(t *testing.T) {
	Convey("Given the linear index distance", t, func() {
		So(grid.Distance(3, 4), ShouldEqual, 1)
		So(grid.Distance(1, 4), ShouldEqual, 3)
		So(grid.Distance(9, 1), ShouldEqual, 8)
		So(grid.Distance(5, 5), ShouldEqual, 0)
	})
}
