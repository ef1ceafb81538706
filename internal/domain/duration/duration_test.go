package duration_test

import (
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	duration "github.com/sohrab4u/consultation/internal/domain/duration"
	model "github.com/sohrab4u/consultation/internal/domain/model"
)

func TestParse(t *testing.T) {
	Convey("Given duration text values", t, func() {
		Convey("When the value is MM:SS", func() {
			secs, err := duration.Parse("12:34")

			Convey("Then hours should be zero", func() {
				So(err, ShouldBeNil)
				So(secs, ShouldEqual, 754)
			})
		})

		Convey("When the value is HH:MM:SS", func() {
			secs, err := duration.Parse("1:02:03")

			Convey("Then all three components should count", func() {
				So(err, ShouldBeNil)
				So(secs, ShouldEqual, 3723)
			})
		})

		Convey("When components carry whitespace", func() {
			secs, err := duration.Parse(" 00 : 10 : 30 ")

			Convey("Then they should be trimmed", func() {
				So(err, ShouldBeNil)
				So(secs, ShouldEqual, 630)
			})
		})

		Convey("When hours exceed a day", func() {
			secs, err := duration.Parse("30:00:00")

			Convey("Then hours should not be bounded", func() {
				So(err, ShouldBeNil)
				So(secs, ShouldEqual, 108000)
			})
		})
	})

	Convey("Given values that cannot be parsed", t, func() {
		Convey("When the value is empty, nil or NaN", func() {
			for _, v := range []any{"", nil, math.NaN()} {
				_, err := duration.Parse(v)
				So(errors.Is(err, duration.ErrEmpty), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "Empty or NaN")
			}
		})

		Convey("When a component is out of range", func() {
			_, err := duration.Parse("5:99")

			Convey("Then it should be a range error", func() {
				So(errors.Is(err, duration.ErrRange), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "Invalid time values: 5:99")
			})
		})

		Convey("When a component is negative", func() {
			_, err := duration.Parse("-1:10")
			So(errors.Is(err, duration.ErrRange), ShouldBeTrue)
		})

		Convey("When the hours would overflow the second count", func() {
			secs, err := duration.Parse("2562047788015216:00:00")

			Convey("Then it should be a range error rather than a wrapped total", func() {
				So(errors.Is(err, duration.ErrRange), ShouldBeTrue)
				So(secs, ShouldEqual, 0)
			})

			Convey("Then huge clock hours should be rejected too", func() {
				_, err := duration.Parse(model.ClockTime{Hour: math.MaxInt / 1000})
				So(errors.Is(err, duration.ErrRange), ShouldBeTrue)
			})
		})

		Convey("When components are not numbers", func() {
			var err error
			So(func() { _, err = duration.Parse("a:b") }, ShouldNotPanic)

			Convey("Then it should be a format error", func() {
				So(errors.Is(err, duration.ErrFormat), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "Invalid format: a:b")
			})
		})

		Convey("When the part count is wrong", func() {
			_, err := duration.Parse("1:2:3:4")
			So(errors.Is(err, duration.ErrFormat), ShouldBeTrue)
			_, err = duration.Parse("90")
			So(errors.Is(err, duration.ErrFormat), ShouldBeTrue)
		})

		Convey("When inspecting the typed error", func() {
			_, err := duration.Parse("x:1")
			var perr *duration.ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Input, ShouldEqual, "x:1")
			So(perr.KindName(), ShouldEqual, "format")
		})
	})

	Convey("Given clock values", t, func() {
		Convey("When the value is a ClockTime", func() {
			secs, err := duration.Parse(model.ClockTime{Hour: 0, Minute: 10, Second: 30})
			So(err, ShouldBeNil)
			So(secs, ShouldEqual, 630)
		})

		Convey("When the value is a time.Time", func() {
			secs, err := duration.Parse(time.Date(1899, 12, 30, 1, 2, 3, 0, time.UTC))
			So(err, ShouldBeNil)
			So(secs, ShouldEqual, 3723)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given second counts", t, func() {
		So(duration.Format(754), ShouldEqual, "12:34")
		So(duration.Format(3723), ShouldEqual, "62:03")
		So(duration.Format(0), ShouldEqual, "00:00")
		So(duration.Format(5), ShouldEqual, "00:05")
		So(duration.Format(-10), ShouldEqual, "00:00")
	})
}

func TestTimeTaken(t *testing.T) {
	Convey("Given raw duration cells", t, func() {
		Convey("Then missing values should be Unknown", func() {
			So(duration.TimeTaken(nil), ShouldEqual, duration.Unknown)
			So(duration.TimeTaken(""), ShouldEqual, duration.Unknown)
			So(duration.TimeTaken(math.NaN()), ShouldEqual, duration.Unknown)
		})

		Convey("Then present values should be shown as typed", func() {
			So(duration.TimeTaken("10:30"), ShouldEqual, "10:30")
			So(duration.TimeTaken("garbage"), ShouldEqual, "garbage")
			So(duration.TimeTaken(model.ClockTime{Minute: 10, Second: 30}), ShouldEqual, "00:10:30")
		})
	})
}
