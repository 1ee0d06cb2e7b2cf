package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/studynotes/internal/config"
	"github.com/hpungsan/studynotes/internal/ops"
	"github.com/hpungsan/studynotes/internal/store"
)

// DefaultDelay is the quiet window when neither config nor settings set one.
const DefaultDelay = 2 * time.Second

// MaxDelay caps the quiet window.
const MaxDelay = time.Hour

// Delay picks the quiet window: autosave_debounce_ms from config, then the
// autosaveInterval setting in seconds, then DefaultDelay. The result never
// exceeds MaxDelay.
func Delay(cfg *config.Config, settings store.Settings) time.Duration {
	if cfg != nil && cfg.AutosaveDebounceMS > 0 {
		ms := min(int64(cfg.AutosaveDebounceMS), MaxDelay.Milliseconds())
		return time.Duration(ms) * time.Millisecond
	}
	if secs := settings.Int("autosaveInterval"); secs > 0 {
		n := min(int64(secs), int64(MaxDelay/time.Second))
		return time.Duration(n) * time.Second
	}
	return DefaultDelay
}

// Session edits the note of one page. Updates are saved after the quiet
// window; Close saves whatever is still pending.
type Session struct {
	ctx    context.Context
	env    *ops.Env
	url    string
	title  string
	logger zerolog.Logger

	deb *Debouncer

	mu      sync.Mutex
	content string
	last    *ops.SaveOutput
	lastErr error
	saves   int
}

// NewSession starts an editing session for url.
func NewSession(ctx context.Context, env *ops.Env, url, pageTitle string, delay time.Duration) *Session {
	s := &Session{
		ctx:    ctx,
		env:    env,
		url:    url,
		title:  pageTitle,
		logger: env.Logger.With().Str("component", "autosave").Str("url", url).Logger(),
	}
	s.deb = NewDebouncer(delay, s.save)
	return s
}

// Update records the current content and restarts the quiet window.
func (s *Session) Update(content string) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
	s.deb.Trigger()
}

func (s *Session) save() {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()

	out, err := ops.Save(s.ctx, s.env, ops.SaveInput{URL: s.url, PageTitle: s.title, Content: content})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.logger.Error().Err(err).Msg("autosave failed")
		return
	}
	s.last = out
	s.lastErr = nil
	s.saves++
	s.logger.Debug().Str("id", out.ID).Int("words", out.Words).Msg("autosaved")
}

// Saves returns how many saves have completed.
func (s *Session) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close flushes a pending save, waits for a save already in flight and
// stops the session. Returns the most recent save result or error.
func (s *Session) Close() (*ops.SaveOutput, error) {
	s.deb.Flush()
	s.deb.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}
