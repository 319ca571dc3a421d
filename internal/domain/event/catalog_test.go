package event_test

import (
	"testing"

	"github.com/okian/sor/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given the event catalog", t, func() {
		Convey("Then every slot is indexed in order", func() {
			for i, d := range event.All() {
				So(d.Index, ShouldEqual, event.Index(i))
				So(d.Index.Valid(), ShouldBeTrue)
				So(d.Index.String(), ShouldEqual, d.Code)
			}
			So(event.Codes(), ShouldHaveLength, event.Count)
		})

		Convey("Then both multi-blind codes share one slot", func() {
			mbf, ok := event.Lookup(event.CodeMultiBlind)
			So(ok, ShouldBeTrue)
			mbo, ok := event.Lookup(event.CodeMultiBlindOld)
			So(ok, ShouldBeTrue)
			So(mbf, ShouldEqual, event.MultiBlind)
			So(mbo, ShouldEqual, event.MultiBlind)
			So(event.Get(event.MultiBlind).Code, ShouldEqual, event.CodeMultiBlind)
		})

		Convey("Then fewest moves has its own slot", func() {
			idx, ok := event.Lookup("333fm")
			So(ok, ShouldBeTrue)
			So(idx, ShouldEqual, event.FewestMoves)
		})

		Convey("Then unknown codes are rejected", func() {
			_, ok := event.Lookup("magic")
			So(ok, ShouldBeFalse)
			So(event.Index(-1).Valid(), ShouldBeFalse)
			So(event.Index(event.Count).String(), ShouldEqual, "unknown")
		})
	})
}
