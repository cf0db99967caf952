package timeseries

import (
	"io"
	"log/slog"

	"github.com/cyp0633/libcalseries/granularity"
)

type settings struct {
	candidates  []granularity.Granularity
	granularity granularity.Granularity
	logger      *slog.Logger
}

func defaultSettings() settings {
	return settings{
		candidates: granularity.Defaults(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Series at construction time.
type Option func(*settings)

// WithCandidates sets the granularities tried during inference. Order does
// not matter, they are ranked coarsest first.
func WithCandidates(candidates ...granularity.Granularity) Option {
	return func(s *settings) {
		if len(candidates) > 0 {
			s.candidates = append([]granularity.Granularity(nil), candidates...)
		}
	}
}

// WithGranularity skips inference for the initial records and uses g
// instead. Later mutations infer again.
func WithGranularity(g granularity.Granularity) Option {
	return func(s *settings) {
		s.granularity = g
	}
}

// WithLogger sets the logger for the series
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
