package pie_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/internal/domain/pie"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComputeSlices(t *testing.T) {
	Convey("Given no projects at all", t, func() {
		slices, err := pie.ComputeSlices(0, 0)

		Convey("Then there is nothing to draw", func() {
			So(err, ShouldBeNil)
			So(slices, ShouldNotBeNil)
			So(len(slices), ShouldEqual, 0)
		})
	})

	Convey("Given only passed projects", t, func() {
		slices, err := pie.ComputeSlices(5, 0)

		Convey("Then a single full-circle pass slice is produced", func() {
			So(err, ShouldBeNil)
			So(len(slices), ShouldEqual, 1)
			So(slices[0].Label, ShouldEqual, pie.LabelPass)
			So(slices[0].StartAngleDeg, ShouldEqual, 0)
			So(slices[0].EndAngleDeg, ShouldEqual, 360)
			So(slices[0].Count, ShouldEqual, 5)
		})

		Convey("And its path is two half arcs through the bottom", func() {
			So(slices[0].PathCommand, ShouldEqual, "M 100 100 L 100 20 A 80 80 0 1 1 100 180 A 80 80 0 1 1 100 20 Z")
			So(strings.Count(slices[0].PathCommand, " A "), ShouldEqual, 2)
		})
	})

	Convey("Given only failed projects", t, func() {
		slices, err := pie.ComputeSlices(0, 4)

		Convey("Then a single full-circle fail slice is produced", func() {
			So(err, ShouldBeNil)
			So(len(slices), ShouldEqual, 1)
			So(slices[0].Label, ShouldEqual, pie.LabelFail)
			So(slices[0].StartAngleDeg, ShouldEqual, 0)
			So(slices[0].EndAngleDeg, ShouldEqual, 360)
		})
	})

	Convey("Given three passes and one fail", t, func() {
		slices, err := pie.ComputeSlices(3, 1)

		Convey("Then the split lands at 270 degrees", func() {
			So(err, ShouldBeNil)
			So(len(slices), ShouldEqual, 2)
			So(slices[0].StartAngleDeg, ShouldEqual, 0)
			So(slices[0].EndAngleDeg, ShouldEqual, 270)
			So(slices[1].StartAngleDeg, ShouldEqual, 270)
			So(slices[1].EndAngleDeg, ShouldEqual, 360)
		})

		Convey("And the large-arc flag follows the angular span", func() {
			So(slices[0].PathCommand, ShouldEqual, "M 100 100 L 100 20 A 80 80 0 1 1 20 100 Z")
			So(slices[1].PathCommand, ShouldEqual, "M 100 100 L 20 100 A 80 80 0 0 1 100 20 Z")
		})
	})

	Convey("Given a custom geometry", t, func() {
		slices, err := pie.ComputeSlices(1, 1, pie.WithGeometry(50, 50, 10))

		Convey("Then paths use that center and radius", func() {
			So(err, ShouldBeNil)
			So(slices[0].PathCommand, ShouldEqual, "M 50 50 L 50 40 A 10 10 0 0 1 50 60 Z")
			So(slices[1].PathCommand, ShouldEqual, "M 50 50 L 50 60 A 10 10 0 0 1 50 40 Z")
		})
	})

	Convey("Given negative counts", t, func() {
		_, err := pie.ComputeSlices(-1, 2)

		Convey("Then the call fails", func() {
			So(errors.Is(err, pie.ErrNegativeCount), ShouldBeTrue)
		})
	})
}

func TestTallyAndViews(t *testing.T) {
	Convey("Given graded projects", t, func() {
		now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		results := []model.ProjectResult{
			{ID: "a", Grade: 1.2, CompletedAt: now},
			{ID: "b", Grade: 0.5, CompletedAt: now},
			{ID: "c", Grade: 1.0, CompletedAt: now},
		}

		Convey("When tallying", func() {
			pass, fail := pie.Tally(results)
			slices, err := pie.ComputeSlices(pass, fail)

			Convey("Then two pass and one fail give a 240 degree pass slice", func() {
				So(pass, ShouldEqual, 2)
				So(fail, ShouldEqual, 1)
				So(err, ShouldBeNil)
				So(slices[0].EndAngleDeg, ShouldEqual, 240)
			})
		})

		Convey("When selecting a view", func() {
			Convey("Then pass, fail and all pick the right subsets", func() {
				So(len(pie.SelectResults(results, pie.ViewAll)), ShouldEqual, 3)
				passed := pie.SelectResults(results, pie.ViewPass)
				So(len(passed), ShouldEqual, 2)
				So(passed[1].ID, ShouldEqual, "c")
				failed := pie.SelectResults(results, pie.ViewFail)
				So(len(failed), ShouldEqual, 1)
				So(failed[0].ID, ShouldEqual, "b")
			})
		})

		Convey("When parsing view names", func() {
			v, ok := pie.ParseView("FAIL")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, pie.ViewFail)

			v, ok = pie.ParseView("graded")
			So(ok, ShouldBeFalse)
			So(v, ShouldEqual, pie.ViewAll)
		})
	})
}
