// Package sweeper runs the retention sweep on a timer.
package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/rs/zerolog"

	"github.com/hpungsan/studynotes/internal/ops"
)

// Sweeper calls ops.Sweep every interval until its context ends.
type Sweeper struct {
	env        *ops.Env
	interval   time.Duration
	runAtStart bool
	logger     zerolog.Logger

	runs atomic.Int64
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval overrides the sweep period from config.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) { s.interval = d }
}

// WithRunAtStart sweeps once immediately when started.
func WithRunAtStart(v bool) Option {
	return func(s *Sweeper) { s.runAtStart = v }
}

// New builds a sweeper over env. The period defaults to cfg.SweepInterval().
func New(env *ops.Env, opts ...Option) *Sweeper {
	s := &Sweeper{
		env:      env,
		interval: env.Config.SweepInterval(),
		logger:   env.Logger.With().Str("component", "sweeper").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		s.interval = 24 * time.Hour
	}
	return s
}

// Runs returns how many sweeps have been attempted.
func (s *Sweeper) Runs() int64 {
	return s.runs.Load()
}

// RunOnce performs a single sweep with the configured retention window.
func (s *Sweeper) RunOnce(ctx context.Context) (*ops.SweepOutput, error) {
	s.runs.Add(1)
	out, err := ops.Sweep(ctx, s.env, ops.SweepInput{})
	if err != nil {
		s.logger.Error().Err(err).Msg("retention sweep failed")
		return nil, err
	}
	s.logger.Debug().Int("removed", out.Removed).Int("max_age_days", out.MaxAgeDays).Msg("retention sweep done")
	return out, nil
}

// Start launches the sweep loop. The returned channel is closed when the
// loop exits, which happens only when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		return s.loop(ctx)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error().Err(fmt.Errorf("sweeper panic: %w", err)).Msg("sweeper stopped")
	}))
	return done
}

func (s *Sweeper) loop(ctx context.Context) error {
	if s.runAtStart {
		_, _ = s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Failures are logged; the next tick tries again.
			_, _ = s.RunOnce(ctx)
		}
	}
}
