package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/sor/internal/adapters/http/api"
	service "github.com/okian/sor/internal/app"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service built from an export", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(
			service.WithExportPath(writeExport(t, resultsTSV)),
			service.WithRegion("Western Australia", 0.3),
			service.WithChartTopN(2),
		)
		_, err := svc.Build(ctx)
		So(err, ShouldBeNil)

		Convey("When writing outputs", func() {
			dir := filepath.Join(t.TempDir(), "out")
			paths, err := svc.WriteOutputs(ctx, dir)
			So(err, ShouldBeNil)

			Convey("Then every report file exists", func() {
				So(len(paths), ShouldEqual, 5)
				for _, name := range []string{"sor_single.html", "sor_average.html", "sor.xlsx", "sor_single.png", "sor_average.png"} {
					info, err := os.Stat(filepath.Join(dir, name))
					So(err, ShouldBeNil)
					So(info.Size(), ShouldBeGreaterThan, 0)
				}
			})

			Convey("And no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 5)
			})

			Convey("And the charts are PNG images", func() {
				b, err := os.ReadFile(filepath.Join(dir, "sor_single.png"))
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(b, []byte("\x89PNG")), ShouldBeTrue)
			})

			Convey("And the workbook has one sheet per leaderboard", func() {
				f, err := excelize.OpenFile(filepath.Join(dir, "sor.xlsx"))
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				So(f.GetSheetList(), ShouldResemble, []string{"SOR (Single)", "SOR (Average)"})
			})

			Convey("And the HTML page lists the competitors", func() {
				b, err := os.ReadFile(filepath.Join(dir, "sor_single.html"))
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, "Alice")
				So(string(b), ShouldContainSubstring, "Dave")
			})
		})

		Convey("When served over HTTP", func() {
			mux := http.NewServeMux()
			api.NewServer(svc, svc, 100).Register(ctx, mux)
			srv := httptest.NewServer(mux)
			defer srv.Close()

			Convey("Then the leaderboard is returned", func() {
				resp, err := http.Get(srv.URL + "/leaderboard?metric=single&limit=2")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var rows []api.StandingRow
				So(json.NewDecoder(resp.Body).Decode(&rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Rank, ShouldEqual, 1)
			})

			Convey("And a competitor's rank is returned", func() {
				resp, err := http.Get(srv.URL + "/rank/2019DAVE01")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var row api.StandingRow
				So(json.NewDecoder(resp.Body).Decode(&row), ShouldBeNil)
				So(row.Total, ShouldEqual, 22)
			})

			Convey("And stats report the build", func() {
				resp, err := http.Get(srv.URL + "/stats")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()

				var stats map[string]any
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["built"], ShouldEqual, true)
				So(stats["competitors"], ShouldEqual, 3.0)
			})
		})
	})
}
