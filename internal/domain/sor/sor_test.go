package sor_test

import (
	"testing"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/profile"
	"github.com/okian/sor/internal/domain/sor"
	"github.com/smartystreets/goconvey/convey"
)

type rec struct{ code, best, avg string }

func competitor(t *testing.T, id string, recs ...rec) *profile.Profile {
	t.Helper()
	records := make([]model.RawResult, len(recs))
	for i, r := range recs {
		records[i] = model.RawResult{
			CompetitionID:  "PerthOpen2023",
			EventCode:      r.code,
			Best:           r.best,
			Average:        r.avg,
			CompetitorID:   id,
			CompetitorName: "Name " + id,
		}
	}
	p, err := profile.New(records)
	if err != nil {
		t.Fatalf("profile %s: %v", id, err)
	}
	return p
}

func ids(board *sor.Board) []string {
	out := make([]string, len(board.Standings))
	for i, s := range board.Standings {
		out[i] = s.Competitor.ID()
	}
	return out
}

func TestCompute(t *testing.T) {
	convey.Convey("Given three competitors with partial results", t, func() {
		alice := competitor(t, "A", rec{"333", "600", "700"}, rec{"222", "200", "0"})
		bob := competitor(t, "B", rec{"333", "600", "800"})
		carol := competitor(t, "C", rec{"333", "700", "0"}, rec{"333mbf", "0970300001", "0"})

		report := sor.Compute([]*profile.Profile{alice, bob, carol})

		convey.Convey("Then single events are ranked with ties and defaults", func() {
			cube := report.Single.Events[2]
			convey.So(cube.Event.Code, convey.ShouldEqual, "333")
			convey.So(cube.Rows, convey.ShouldHaveLength, 3)
			convey.So([]int{cube.Rows[0].Rank, cube.Rows[1].Rank, cube.Rows[2].Rank}, convey.ShouldResemble, []int{1, 1, 3})

			twos := report.Single.Events[1]
			convey.So(twos.Rows[0].Owner.ID(), convey.ShouldEqual, "A")
			convey.So(twos.Rows[1].Default, convey.ShouldBeTrue)
			convey.So(twos.Rows[2].Default, convey.ShouldBeTrue)
		})

		convey.Convey("Then the single leaderboard sums ranks over all events", func() {
			board := report.Board(model.Single)
			convey.So(ids(board), convey.ShouldResemble, []string{"A", "B", "C"})
			convey.So(board.Standings[0].Total, convey.ShouldEqual, 19)
			convey.So(board.Standings[1].Total, convey.ShouldEqual, 20)
			convey.So(board.Standings[2].Total, convey.ShouldEqual, 21)

			c := board.Standings[2]
			convey.So(c.Cells[event.MultiBlind], convey.ShouldResemble, sor.Cell{Kind: sor.Normal, Rank: 1})
			convey.So(c.Cells[1], convey.ShouldResemble, sor.Cell{Kind: sor.Default, Rank: 2})
		})

		convey.Convey("Then the multi-attempt average is blank for everybody", func() {
			board := report.Board(model.Average)
			mbf := board.Events[event.MultiBlind]
			convey.So(mbf.Blank, convey.ShouldBeTrue)
			convey.So(mbf.Rows, convey.ShouldBeEmpty)
			for _, s := range board.Standings {
				convey.So(s.Cells[event.MultiBlind].Kind, convey.ShouldEqual, sor.Blank)
				convey.So(s.Cells[event.MultiBlind].Value(), convey.ShouldEqual, 0)
			}
		})

		convey.Convey("Then the average leaderboard ranks the remaining events", func() {
			board := report.Board(model.Average)
			convey.So(ids(board), convey.ShouldResemble, []string{"A", "B", "C"})
			convey.So([]int{board.Standings[0].Total, board.Standings[1].Total, board.Standings[2].Total},
				convey.ShouldResemble, []int{17, 18, 19})
			convey.So(board.Standings[2].Cells[2], convey.ShouldResemble, sor.Cell{Kind: sor.Default, Rank: 3})
		})

		convey.Convey("Then standings can be found by competitor id", func() {
			s, ok := report.Single.Find("B")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(s.Rank, convey.ShouldEqual, 2)
			_, ok = report.Single.Find("nobody")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given competitors with equal totals", t, func() {
		a := competitor(t, "A", rec{"333", "600", "0"}, rec{"222", "300", "0"})
		b := competitor(t, "B", rec{"333", "700", "0"}, rec{"222", "200", "0"})
		report := sor.Compute([]*profile.Profile{a, b})

		convey.Convey("Then the leaderboard shares the rank and keeps input order", func() {
			convey.So(ids(&report.Single), convey.ShouldResemble, []string{"A", "B"})
			convey.So(report.Single.Standings[0].Rank, convey.ShouldEqual, 1)
			convey.So(report.Single.Standings[1].Rank, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given no competitors", t, func() {
		report := sor.Compute(nil)

		convey.Convey("Then both leaderboards are empty", func() {
			convey.So(report.Single.Standings, convey.ShouldBeEmpty)
			convey.So(report.Average.Standings, convey.ShouldBeEmpty)
			convey.So(report.Average.Events[event.MultiBlind].Blank, convey.ShouldBeTrue)
		})
	})
}

func TestCellKindString(t *testing.T) {
	for kind, want := range map[sor.CellKind]string{sor.Blank: "blank", sor.Normal: "normal", sor.Default: "default"} {
		if got := kind.String(); got != want {
			t.Errorf("%d: got %q, want %q", kind, got, want)
		}
	}
}
