// Command sor builds and serves sum-of-ranks leaderboards from the WCA results export.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/okian/sor/internal/adapters/http/api"
	"github.com/okian/sor/internal/adapters/http/swagger"
	"github.com/okian/sor/internal/adapters/render"
	"github.com/okian/sor/internal/adapters/wcaexport"
	app "github.com/okian/sor/internal/app"
	"github.com/okian/sor/internal/config"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/synth"
	"github.com/okian/sor/pkg/logger"
	"github.com/okian/sor/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout             = 10 * time.Second
	writeTimeout            = 10 * time.Second
	idleTimeout             = 60 * time.Second
	readHeaderTimeout       = 5 * time.Second
	shutdownTimeout         = 30 * time.Second
	systemMetricsInterval   = 10 * time.Second
	defaultShowLimit        = 25
	defaultSynthCompetitors = 200
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		// Use stderr since the logger may not be initialized yet
		_, _ = os.Stderr.WriteString("sor: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "sor",
		Usage:  "sum-of-ranks leaderboards for a region's competitors",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML or TOML config file (defaults to $SOR_CONFIG)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "download the latest results export",
				Action: fetchAction,
			},
			{
				Name:  "generate",
				Usage: "write a synthetic export for load testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "data/synthetic_export.zip", Usage: "zip archive or directory to write"},
					&cli.IntFlag{Name: "competitors", Value: defaultSynthCompetitors, Usage: "number of competitors"},
					&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "generator seed"},
				},
				Action: generateAction,
			},
			{
				Name:  "build",
				Usage: "build the leaderboards and write the report files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output directory (overrides output_dir)"},
				},
				Action: buildAction,
			},
			{
				Name:  "show",
				Usage: "print a leaderboard to the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "metric", Value: "single", Usage: "single or average"},
					&cli.IntFlag{Name: "limit", Value: defaultShowLimit, Usage: "rows to print, 0 for all"},
				},
				Action: showAction,
			},
			{
				Name:  "serve",
				Usage: "build the leaderboards and serve them over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (overrides addr)"},
				},
				Action: serveAction,
			},
		},
	}
}

// setup loads configuration and initializes logging.
func setup(ctx context.Context, cmd *cli.Command) (*config.Config, logger.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFrom(ctx, path)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	return cfg, logger.Get(), nil
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DownloadTimeout())
	defer cancel()

	log.Info(ctx, "downloading export", logger.String("url", cfg.ExportURL), logger.String("dest", cfg.ExportPath))
	start := time.Now()
	n, err := wcaexport.Download(ctx, &http.Client{}, cfg.ExportURL, cfg.ExportPath)
	if err != nil {
		metrics.RecordErrorByComponent("fetch", "download_failed")
		return fmt.Errorf("fetch export: %w", err)
	}
	metrics.RecordDownloadBytes(n)
	log.Info(ctx, "export downloaded",
		logger.String("dest", cfg.ExportPath),
		logger.Int("bytes", int(n)),
		logger.Duration("duration", time.Since(start)),
	)
	return nil
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	c := synth.DefaultConfig(cfg.Region)
	c.Competitors = int(cmd.Int("competitors"))
	c.Seed = cmd.Uint64("seed")
	out := cmd.String("out")

	stats, err := synth.Write(ctx, out, c)
	if err != nil {
		return fmt.Errorf("generate export: %w", err)
	}
	log.Info(ctx, "synthetic export written",
		logger.String("path", out),
		logger.Int("competitions", stats.Competitions),
		logger.Int("competitors", stats.Competitors),
		logger.Int("results", stats.Results),
	)
	return nil
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	dir := cfg.OutputDir
	if out := cmd.String("out"); out != "" {
		dir = out
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log))
	if _, err := svc.Build(ctx); err != nil {
		return err
	}
	paths, err := svc.WriteOutputs(ctx, dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(cmd.Root().Writer, p)
	}
	return nil
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	metric, err := model.ParseMetric(cmd.String("metric"))
	if err != nil {
		return err
	}
	cfg, log, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log))
	if _, err := svc.Build(ctx); err != nil {
		return err
	}
	return render.Terminal(cmd.Root().Writer, metric.Title(), svc.Report().Board(metric), int(cmd.Int("limit")))
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log))
	if _, err := svc.Build(ctx); err != nil {
		return err
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	return serve(ctx, log, newHandler(ctx, cfg, svc), cfg.Addr)
}

// newHandler registers the docs and business API routes.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	var opts []api.ServerOption
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit, opts...).Register(ctx, mux)
	return mux
}

// serve runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, log logger.Logger, handler http.Handler, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater periodically records memory and goroutine gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
