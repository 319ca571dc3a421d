// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config holding every default.
//   - Load layers an optional YAML file and SOR_ environment variables on top.
//   - Loading and validation errors wrap this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text, json or pretty.
	LogFormat string `koanf:"log_format" validate:"oneof=text json pretty"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// ExportPath is the results export, either a .zip archive or a directory of TSV files.
	ExportPath string `koanf:"export_path" validate:"required"`

	// ExportURL is the JSON descriptor of the public export, read by fetch.
	ExportURL string `koanf:"export_url" validate:"required,url"`

	// DownloadTimeoutS bounds a whole export download in seconds.
	DownloadTimeoutS int `koanf:"download_timeout_s" validate:"gt=0"`

	// Region is matched against competition city names.
	Region string `koanf:"region" validate:"required"`

	// MinRegionShare is the share of a competitor's results that must come from
	// region competitions. Competitors need strictly more than this.
	MinRegionShare float64 `koanf:"min_region_share" validate:"gte=0,lt=1"`

	// OutputDir receives the rendered report files.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// ChartTopN is the number of competitors drawn on the totals charts.
	ChartTopN int `koanf:"chart_top_n" validate:"gte=1"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`

	// RateLimitRPS and RateLimitBurst bound API requests per second. 0 disables the limiter.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		ExportPath:          "data/WCA_export.tsv.zip",
		ExportURL:           "https://www.worldcubeassociation.org/api/v0/export/public",
		DownloadTimeoutS:    300,
		Region:              "Western Australia",
		MinRegionShare:      0.5,
		OutputDir:           "out",
		ChartTopN:           20,
		MaxLeaderboardLimit: 100,
		RateLimitRPS:        50,
		RateLimitBurst:      100,
	}
}

// DownloadTimeout returns DownloadTimeoutS as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutS) * time.Second
}
