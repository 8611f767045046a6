package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/usecase"
)

// Engine holds tuning knobs for the resolution pipeline
type Engine struct {
	debounceWindow time.Duration
	rateLimit      int
	rateWindow     time.Duration
	relevanceFloor float64
	vectorTimeout  time.Duration
}

// Flags returns CLI flags for engine tuning
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "debounce-window",
			Usage:       "Quiet window before a typed message is processed",
			Value:       usecase.DefaultDebounceWindow,
			Sources:     cli.EnvVars("VECINO_DEBOUNCE_WINDOW"),
			Destination: &e.debounceWindow,
		},
		&cli.IntFlag{
			Name:        "rate-limit",
			Usage:       "Messages allowed per user per rate window",
			Value:       usecase.DefaultRateLimit,
			Sources:     cli.EnvVars("VECINO_RATE_LIMIT"),
			Destination: &e.rateLimit,
		},
		&cli.DurationFlag{
			Name:        "rate-window",
			Usage:       "Sliding window for the per-user rate limit",
			Value:       usecase.DefaultRateWindow,
			Sources:     cli.EnvVars("VECINO_RATE_WINDOW"),
			Destination: &e.rateWindow,
		},
		&cli.DurationFlag{
			Name:        "vector-timeout",
			Usage:       "Deadline for remote embedding and vector-search calls",
			Value:       usecase.DefaultVectorTimeout,
			Sources:     cli.EnvVars("VECINO_VECTOR_TIMEOUT"),
			Destination: &e.vectorTimeout,
		},
		&cli.FloatFlag{
			Name:        "relevance-floor",
			Usage:       "Minimum score for a candidate to be distance-ranked",
			Value:       0,
			Sources:     cli.EnvVars("VECINO_RELEVANCE_FLOOR"),
			Destination: &e.relevanceFloor,
		},
	}
}

// LogAttrs returns log attributes for the engine configuration
func (e *Engine) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Duration("debounce_window", e.debounceWindow),
		slog.Int("rate_limit", e.rateLimit),
		slog.Duration("rate_window", e.rateWindow),
		slog.Duration("vector_timeout", e.vectorTimeout),
		slog.Float64("relevance_floor", e.relevanceFloor),
	}
}

// Options converts the configured knobs into use case options
func (e *Engine) Options() []usecase.Option {
	return []usecase.Option{
		usecase.WithDebounceWindow(e.debounceWindow),
		usecase.WithRateLimit(e.rateLimit, e.rateWindow),
		usecase.WithVectorTimeout(e.vectorTimeout),
		usecase.WithRelevanceFloor(e.relevanceFloor),
	}
}
