package repository

import "time"

// Option applies a configuration option to the ReportStore.
type Option func(*ReportStore)

// WithClock sets the time source used to stamp published snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *ReportStore) {
		if now != nil {
			s.now = now
		}
	}
}
