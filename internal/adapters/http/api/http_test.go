package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/sor/internal/adapters/http/api"
	"github.com/okian/sor/internal/adapters/repository"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockLeaderboard struct {
	standings map[model.Metric][]types.StandingRow
	events    map[string][]types.ResultRow
	err       error

	lastMetric model.Metric
	lastCode   string
}

func (m *mockLeaderboard) TopN(_ context.Context, metric model.Metric, n int) ([]types.StandingRow, error) {
	m.lastMetric = metric
	if m.err != nil {
		return nil, m.err
	}
	rows := m.standings[metric]
	return rows[:min(n, len(rows))], nil
}

func (m *mockLeaderboard) Rank(_ context.Context, metric model.Metric, id string) (types.StandingRow, error) {
	m.lastMetric = metric
	if m.err != nil {
		return types.StandingRow{}, m.err
	}
	for _, r := range m.standings[metric] {
		if r.CompetitorID == id {
			return r, nil
		}
	}
	return types.StandingRow{}, repository.ErrNotFound
}

func (m *mockLeaderboard) Event(_ context.Context, code string, metric model.Metric) ([]types.ResultRow, error) {
	m.lastMetric, m.lastCode = metric, code
	if m.err != nil {
		return nil, m.err
	}
	return m.events[code], nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any { return m.stats }

func newMock() *mockLeaderboard {
	return &mockLeaderboard{
		standings: map[model.Metric][]types.StandingRow{
			model.Single: {
				{Rank: 1, CompetitorID: "2016BOBB01", CompetitorName: "Bob", Total: 18},
				{Rank: 2, CompetitorID: "2015ALIC01", CompetitorName: "Alice", Total: 19},
				{Rank: 3, CompetitorID: "2019DAVE01", CompetitorName: "Dave", Total: 20},
			},
			model.Average: {
				{Rank: 1, CompetitorID: "2015ALIC01", CompetitorName: "Alice", Total: 17},
			},
		},
		events: map[string][]types.ResultRow{
			"333mbf": {{Rank: 1, CompetitorID: "2015ALIC01", CompetitorName: "Alice", Score: "3/4 50:00"}},
		},
	}
}

func serve(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMock()
		server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"competitors": 3}}, 100)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then health serves the metrics exposition", func() {
			w := serve(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})

		Convey("Then stats are served as JSON", func() {
			w := serve(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["competitors"], ShouldEqual, float64(3))
		})

		Convey("Then non-GET methods are rejected", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaderboard", nil))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given the leaderboard route", t, func() {
		deps := newMock()
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, 2).Register(context.Background(), mux)

		Convey("When requesting top N entries", func() {
			w := serve(mux, "/leaderboard?limit=2")

			Convey("Then the single leaderboard is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []types.StandingRow
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].CompetitorName, ShouldEqual, "Bob")
				So(deps.lastMetric, ShouldEqual, model.Single)
			})
		})

		Convey("When requesting the average leaderboard without a limit", func() {
			w := serve(mux, "/leaderboard?metric=average")

			Convey("Then the default limit applies", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMetric, ShouldEqual, model.Average)
			})
		})

		Convey("When the limit is invalid or too large", func() {
			for _, q := range []string{"limit=0", "limit=abc", "limit=3"} {
				w := serve(mux, "/leaderboard?"+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
			So(decodeError(serve(mux, "/leaderboard?limit=3"))["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When the metric is unknown", func() {
			w := serve(mux, "/leaderboard?metric=median")

			Convey("Then it returns 400 naming the metric", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "median")
			})
		})

		Convey("When no report is published yet", func() {
			deps.err = repository.ErrNotReady
			w := serve(mux, "/leaderboard")

			Convey("Then it returns 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "not_ready")
			})
		})

		Convey("When the store fails", func() {
			deps.err = errors.New("disk on fire")
			w := serve(mux, "/leaderboard")

			Convey("Then it returns 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestRankHandler(t *testing.T) {
	Convey("Given the rank route", t, func() {
		deps := newMock()
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, 100).Register(context.Background(), mux)

		Convey("When requesting an existing competitor", func() {
			w := serve(mux, "/rank/2015ALIC01?metric=avg")

			Convey("Then the standing is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var row types.StandingRow
				So(json.Unmarshal(w.Body.Bytes(), &row), ShouldBeNil)
				So(row.Total, ShouldEqual, 17)
				So(deps.lastMetric, ShouldEqual, model.Average)
			})
		})

		Convey("When requesting an unknown competitor", func() {
			w := serve(mux, "/rank/nobody")

			Convey("Then it returns 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})
	})
}

func TestEventHandler(t *testing.T) {
	Convey("Given the event route", t, func() {
		deps := newMock()
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, 100).Register(context.Background(), mux)

		Convey("When requesting the legacy multi-blind code", func() {
			w := serve(mux, "/events/333mbo")

			Convey("Then the canonical event is queried", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCode, ShouldEqual, "333mbf")
				var body struct {
					Event  string            `json:"event"`
					Label  string            `json:"label"`
					Ranked bool              `json:"ranked"`
					Rows   []types.ResultRow `json:"rows"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Event, ShouldEqual, "333mbf")
				So(body.Label, ShouldEqual, "3x3x3 Multi-Blind")
				So(body.Ranked, ShouldBeTrue)
				So(body.Rows, ShouldHaveLength, 1)
			})
		})

		Convey("When requesting the multi-blind average", func() {
			w := serve(mux, "/events/333mbf?metric=average")

			Convey("Then the event is reported as not ranked", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"ranked":false`)
			})
		})

		Convey("When requesting an event with no rows", func() {
			w := serve(mux, "/events/clock")

			Convey("Then an empty list is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rows":[]`)
			})
		})

		Convey("When requesting an unknown event", func() {
			w := serve(mux, "/events/magic")

			Convey("Then it returns 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "unknown_event")
			})
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a rate limited server", t, func() {
		mux := http.NewServeMux()
		api.NewServer(newMock(), &mockStatsProvider{}, 100, api.WithRateLimit(0.001, 2)).Register(context.Background(), mux)

		Convey("When the burst is spent", func() {
			codes := make([]int, 0, 3)
			for i := 0; i < 3; i++ {
				codes = append(codes, serve(mux, "/leaderboard").Code)
			}

			Convey("Then further requests get 429", func() {
				So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
			})
		})

		Convey("Then health checks are never limited", func() {
			for i := 0; i < 5; i++ {
				So(serve(mux, "/healthz").Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestError(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := fmt.Errorf("boom")

		Convey("Then kind and cause are both reachable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then Wrap keeps nil errors nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: boom")
			So(api.NewKind("api.op", api.ErrRateLimited).Error(), ShouldEqual, "api.op: rate limited")
		})
	})
}
