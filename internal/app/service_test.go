package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sor/internal/adapters/http/api"
	repository "github.com/okian/sor/internal/adapters/repository"
	service "github.com/okian/sor/internal/app"
	"github.com/okian/sor/internal/config"
	"github.com/okian/sor/internal/domain/model"
)

var (
	_ api.Dependencies  = (*service.Service)(nil)
	_ api.StatsProvider = (*service.Service)(nil)
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Report(), ShouldBeNil)

			stats := svc.GetStats()
			So(stats["built"], ShouldBeFalse)
			So(stats["region"], ShouldEqual, "Western Australia")
			So(stats["min_region_share"], ShouldEqual, 0.5)
			So(stats["competitors"], ShouldEqual, 0)
		})

		Convey("And queries report the store is not ready", func() {
			_, err := svc.TopN(context.Background(), model.Single, 10)
			So(errors.Is(err, repository.ErrNotReady), ShouldBeTrue)
		})
	})

	Convey("Given a service built from a config", t, func() {
		cfg := config.New()
		cfg.Region = "Victoria"
		cfg.MinRegionShare = 0.25
		cfg.ExportPath = "/tmp/export.zip"
		svc := service.New(service.WithConfig(cfg))

		Convey("Then the config settings are applied", func() {
			stats := svc.GetStats()
			So(stats["region"], ShouldEqual, "Victoria")
			So(stats["min_region_share"], ShouldEqual, 0.25)
			So(stats["export_path"], ShouldEqual, "/tmp/export.zip")
		})
	})
}

func TestService_Build(t *testing.T) {
	Convey("Given an export with four competitors", t, func() {
		ctx := context.Background()
		dir := writeExport(t, resultsTSV)

		Convey("When building with the default share", func() {
			svc := service.New(service.WithExportPath(dir))
			res, err := svc.Build(ctx)

			Convey("Then only the competitor who mostly competes in the region is kept", func() {
				So(err, ShouldBeNil)
				So(res.Competitors, ShouldEqual, 1)
				So(res.Selection.Considered, ShouldEqual, 3)
				So(res.Selection.Kept, ShouldEqual, 1)

				row, err := svc.Rank(ctx, model.Single, "2015ALIC01")
				So(err, ShouldBeNil)
				So(row.Rank, ShouldEqual, 1)
			})

			Convey("And the run id is a uuid", func() {
				_, err := uuid.Parse(res.RunID)
				So(err, ShouldBeNil)
				So(svc.GetStats()["run_id"], ShouldEqual, res.RunID)
			})

			Convey("And unrecognized event codes are counted", func() {
				So(res.Unrecognized, ShouldResemble, map[string]int{"magic": 1})
			})
		})

		Convey("When building with a lower share", func() {
			svc := service.New(service.WithExportPath(dir), service.WithRegion("Western Australia", 0.3))
			res, err := svc.Build(ctx)
			So(err, ShouldBeNil)

			Convey("Then every region competitor is ranked", func() {
				So(res.Competitors, ShouldEqual, 3)
				rows, err := svc.TopN(ctx, model.Single, 10)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Total, ShouldEqual, 19)
				So(rows[1].Total, ShouldEqual, 19)
				So(rows[1].Rank, ShouldEqual, 1)
				So(rows[2].CompetitorID, ShouldEqual, "2019DAVE01")
				So(rows[2].Rank, ShouldEqual, 3)
				So(rows[2].Total, ShouldEqual, 22)
			})

			Convey("And event rankings are served", func() {
				rows, err := svc.Event(ctx, "333", model.Single)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].CompetitorID, ShouldEqual, "2016BOBB01")
				So(rows[0].Score, ShouldEqual, "8.00")
			})

			Convey("And stats describe the build", func() {
				stats := svc.GetStats()
				So(stats["built"], ShouldBeTrue)
				So(stats["competitors"], ShouldEqual, 3)
				selection, ok := stats["selection"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(selection["region_competitions"], ShouldEqual, 2)
			})
		})

		Convey("When the region matches nobody", func() {
			svc := service.New(service.WithExportPath(dir), service.WithRegion("Tasmania", 0.5))
			_, err := svc.Build(ctx)

			Convey("Then the build fails and nothing is published", func() {
				So(errors.Is(err, service.ErrNoCompetitors), ShouldBeTrue)
				So(svc.Report(), ShouldBeNil)
			})
		})

		Convey("When the export does not exist", func() {
			svc := service.New(service.WithExportPath(filepath.Join(dir, "missing.zip")))
			_, err := svc.Build(ctx)

			Convey("Then the open error is returned", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "open export")
			})
		})

		Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			svc := service.New(service.WithExportPath(dir))
			_, err := svc.Build(cctx)

			Convey("Then the build stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestService_WriteOutputsBeforeBuild(t *testing.T) {
	Convey("Given a service that has not built", t, func() {
		svc := service.New()

		Convey("Then writing outputs fails", func() {
			_, err := svc.WriteOutputs(context.Background(), t.TempDir())
			So(errors.Is(err, service.ErrNotBuilt), ShouldBeTrue)
		})
	})
}
