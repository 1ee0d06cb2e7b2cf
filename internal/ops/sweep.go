package ops

import (
	"context"
	"math"
	"time"

	"github.com/hpungsan/studynotes/internal/errors"
)

// MaxRetentionDays is the longest retention window a time.Duration can hold.
// Longer windows are clamped to it.
const MaxRetentionDays = int(math.MaxInt64 / int64(24*time.Hour))

// SweepInput contains parameters for the Sweep operation.
type SweepInput struct {
	// MaxAgeDays overrides the retention window. 0 uses the cleanupDays
	// setting, then the retention_days config value.
	MaxAgeDays int `json:"max_age_days,omitempty"`
}

// SweepOutput contains the result of the Sweep operation.
type SweepOutput struct {
	Removed    int   `json:"removed"`
	MaxAgeDays int   `json:"max_age_days"`
	Cutoff     int64 `json:"cutoff"`
}

// Sweep removes notes older than the retention window.
func Sweep(ctx context.Context, env *Env, input SweepInput) (*SweepOutput, error) {
	if input.MaxAgeDays < 0 {
		return nil, errors.NewInvalidRequest("max_age_days must not be negative")
	}

	days := input.MaxAgeDays
	if days == 0 {
		settings, err := env.Settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		days = settings.Int("cleanupDays")
	}
	if days <= 0 {
		days = env.Config.RetentionDays
	}
	days = min(days, MaxRetentionDays)

	now := env.now()
	maxAge := time.Duration(days) * 24 * time.Hour
	removed, err := env.Notes.SweepExpired(ctx, maxAge, now)
	if err != nil {
		return nil, err
	}

	if removed > 0 {
		env.Logger.Info().Int("removed", removed).Int("max_age_days", days).Msgf("Cleaned up %d old notes", removed)
	}

	return &SweepOutput{
		Removed:    removed,
		MaxAgeDays: days,
		Cutoff:     now.Add(-maxAge).UnixMilli(),
	}, nil
}
