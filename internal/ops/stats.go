package ops

import (
	"context"
	"time"

	"github.com/hpungsan/studynotes/internal/note"
)

// StatsOutput summarizes the stored notes.
type StatsOutput struct {
	TotalNotes    int            `json:"total_notes"`
	TotalWords    int            `json:"total_words"`
	StudySessions int            `json:"study_sessions"` // distinct local calendar days with a save
	PlatformsUsed int            `json:"platforms_used"`
	ByPlatform    map[string]int `json:"by_platform"`
	Newest        int64          `json:"newest,omitempty"`
	Oldest        int64          `json:"oldest,omitempty"`
}

// Stats computes totals over all notes.
func Stats(ctx context.Context, env *Env) (*StatsOutput, error) {
	all, err := env.Notes.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{
		TotalNotes: len(all),
		ByPlatform: map[string]int{},
	}
	days := map[string]bool{}
	for _, n := range all {
		out.TotalWords += note.WordCount(n.Content)
		if n.Timestamp != 0 {
			days[time.UnixMilli(n.Timestamp).Local().Format("2006-01-02")] = true
			if n.Timestamp > out.Newest {
				out.Newest = n.Timestamp
			}
			if out.Oldest == 0 || n.Timestamp < out.Oldest {
				out.Oldest = n.Timestamp
			}
		}
		if n.Platform != "" {
			out.ByPlatform[n.Platform]++
		}
	}
	out.StudySessions = len(days)
	out.PlatformsUsed = len(out.ByPlatform)
	return out, nil
}
