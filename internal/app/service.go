// Package service builds the sum-of-ranks report and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/sor/internal/adapters/repository"
	"github.com/okian/sor/internal/adapters/wcaexport"
	"github.com/okian/sor/internal/config"
	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/profile"
	"github.com/okian/sor/internal/domain/sor"
	"github.com/okian/sor/internal/domain/types"
	"github.com/okian/sor/pkg/logger"
	"github.com/okian/sor/pkg/metrics"
)

const (
	buildOK    = "ok"
	buildError = "error"
)

// BuildResult describes one finished build.
type BuildResult struct {
	RunID        string
	Selection    wcaexport.Stats
	Competitors  int
	Unrecognized map[string]int
	Duration     time.Duration
	FinishedAt   time.Time
}

// Service builds reports from an export and serves them through a store.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	logger logger.Logger

	exportPath string
	criteria   wcaexport.Criteria
	chartTopN  int

	report *sor.Report
	last   *BuildResult
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the store reports are published to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExportPath sets the export archive or directory read by Build.
func WithExportPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.exportPath = path
		}
	}
}

// WithRegion sets the region selection criteria.
func WithRegion(region string, minShare float64) Option {
	return func(s *Service) {
		if region != "" {
			s.criteria.Region = region
		}
		if minShare >= 0 && minShare < 1 {
			s.criteria.MinShare = minShare
		}
	}
}

// WithChartTopN sets how many competitors the totals charts show.
func WithChartTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chartTopN = n
		}
	}
}

// WithConfig applies every build setting of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		WithExportPath(cfg.ExportPath)(s)
		WithRegion(cfg.Region, cfg.MinRegionShare)(s)
		WithChartTopN(cfg.ChartTopN)(s)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	def := config.New()
	s := &Service{
		exportPath: def.ExportPath,
		criteria:   wcaexport.Criteria{Region: def.Region, MinShare: def.MinRegionShare},
		chartTopN:  def.ChartTopN,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewReportStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Build reads the export, computes both leaderboards and publishes them.
func (s *Service) Build(ctx context.Context) (BuildResult, error) {
	start := time.Now()
	res := BuildResult{RunID: uuid.NewString()}
	log := s.logger.Named("build")

	log.Info(ctx, "building report",
		logger.String("run_id", res.RunID),
		logger.String("export", s.exportPath),
		logger.String("region", s.criteria.Region),
		logger.Float64("min_share", s.criteria.MinShare),
	)

	report, err := s.build(ctx, log, &res)
	res.Duration = time.Since(start)
	ms := float64(res.Duration.Microseconds()) / 1000
	if err != nil {
		metrics.RecordBuild(buildError, ms)
		metrics.RecordErrorByComponent("build", "build_failed")
		log.Error(ctx, "build failed", logger.String("run_id", res.RunID), logger.Error(err))
		return res, err
	}

	if err := s.store.Publish(ctx, report); err != nil {
		metrics.RecordBuild(buildError, ms)
		metrics.RecordErrorByComponent("store", "publish_failed")
		return res, fmt.Errorf("publish report: %w", err)
	}

	res.FinishedAt = time.Now()
	metrics.RecordBuild(buildOK, ms)
	metrics.UpdateBuildLastUnix(float64(res.FinishedAt.Unix()))
	metrics.UpdateCompetitors(res.Competitors)

	s.mu.Lock()
	s.report = report
	s.last = &res
	s.mu.Unlock()

	log.Info(ctx, "report published",
		logger.String("run_id", res.RunID),
		logger.Int("competitors", res.Competitors),
		logger.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *Service) build(ctx context.Context, log logger.Logger, res *BuildResult) (*sor.Report, error) {
	src, err := wcaexport.Open(s.exportPath)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer func() { _ = src.Close() }()

	groups, stats, err := wcaexport.Select(ctx, src, s.criteria)
	if err != nil {
		return nil, fmt.Errorf("select competitors: %w", err)
	}
	res.Selection = stats
	log.Info(ctx, "competitors selected",
		logger.Int("region_competitions", stats.RegionCompetitions),
		logger.Int("considered", stats.Considered),
		logger.Int("kept", stats.Kept),
		logger.Int("skipped_rows", stats.SkippedRows),
	)
	if len(groups) == 0 {
		return nil, ErrNoCompetitors
	}

	records := 0
	res.Unrecognized = make(map[string]int)
	profiles := make([]*profile.Profile, 0, len(groups))
	for _, g := range groups {
		p, err := profile.New(g)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", len(profiles), err)
		}
		records += len(g)
		for code, n := range p.Unrecognized() {
			res.Unrecognized[code] += n
		}
		profiles = append(profiles, p)
	}
	metrics.RecordRecordsIngested(records)

	for _, code := range slices.Sorted(maps.Keys(res.Unrecognized)) {
		n := res.Unrecognized[code]
		metrics.RecordUnrecognized(code, n)
		log.Warn(ctx, "unrecognized event code", logger.String("event", code), logger.Int("records", n))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := sor.Compute(profiles)
	res.Competitors = len(profiles)
	metrics.RecordEventRankings(rankedEvents())
	return &report, nil
}

// rankedEvents counts the event rankings of one report.
func rankedEvents() int {
	n := 0
	for _, m := range model.Metrics {
		for idx := range event.Count {
			if sor.Ranked(event.Index(idx), m) {
				n++
			}
		}
	}
	return n
}

// Report returns the last built report, or nil before the first Build.
func (s *Service) Report() *sor.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// TopN returns the first n standings of a leaderboard.
func (s *Service) TopN(ctx context.Context, metric model.Metric, n int) ([]types.StandingRow, error) {
	return s.store.TopN(ctx, metric, n)
}

// Rank returns one competitor's standing.
func (s *Service) Rank(ctx context.Context, metric model.Metric, competitorID string) (types.StandingRow, error) {
	return s.store.Rank(ctx, metric, competitorID)
}

// Event returns the ranking of one event.
func (s *Service) Event(ctx context.Context, code string, metric model.Metric) ([]types.ResultRow, error) {
	return s.store.Event(ctx, code, metric)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"built":            s.last != nil,
		"export_path":      s.exportPath,
		"region":           s.criteria.Region,
		"min_region_share": s.criteria.MinShare,
		"competitors":      s.store.Count(context.Background()),
	}

	if s.last != nil {
		stats["run_id"] = s.last.RunID
		stats["last_build_at"] = s.last.FinishedAt.UTC().Format(time.RFC3339)
		stats["last_build_ms"] = s.last.Duration.Milliseconds()
		stats["selection"] = map[string]any{
			"region_competitions": s.last.Selection.RegionCompetitions,
			"region_records":      s.last.Selection.RegionRecords,
			"other_records":       s.last.Selection.OtherRecords,
			"skipped_rows":        s.last.Selection.SkippedRows,
			"considered":          s.last.Selection.Considered,
			"kept":                s.last.Selection.Kept,
		}
		stats["unrecognized"] = maps.Clone(s.last.Unrecognized)
	}

	return stats
}
