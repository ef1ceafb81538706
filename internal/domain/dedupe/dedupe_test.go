package dedupe_test

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sohrab4u/consultation/internal/domain/dedupe"
)

func TestTracker(t *testing.T) {
	Convey("Given a new tracker", t, func() {
		tr := dedupe.NewTracker(dedupe.WithIgnored("Unknown"))

		Convey("When recording a new id", func() {
			seen := tr.SeenAndRecord("C-1")

			Convey("Then it should not be seen", func() {
				So(seen, ShouldBeFalse)
				So(tr.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report it", func() {
				So(tr.SeenAndRecord("C-1"), ShouldBeTrue)
				So(tr.SeenAndRecord("C-1"), ShouldBeTrue)
				So(tr.Duplicates(), ShouldResemble, []dedupe.Duplicate{{ID: "C-1", Count: 3}})
			})
		})

		Convey("When recording ignored ids", func() {
			So(tr.SeenAndRecord("Unknown"), ShouldBeFalse)
			So(tr.SeenAndRecord("Unknown"), ShouldBeFalse)

			Convey("Then they should not be tracked", func() {
				So(tr.Size(), ShouldEqual, 0)
				So(tr.Duplicates(), ShouldBeEmpty)
			})
		})

		Convey("When many goroutines record overlapping ids", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						tr.SeenAndRecord(fmt.Sprintf("C-%d", i))
					}
				}()
			}
			wg.Wait()

			Convey("Then every id should be counted once per goroutine", func() {
				So(tr.Size(), ShouldEqual, 100)
				dups := tr.Duplicates()
				So(dups, ShouldHaveLength, 100)
				So(dups[0].Count, ShouldEqual, 8)
			})
		})
	})
}
