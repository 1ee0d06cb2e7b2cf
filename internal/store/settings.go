package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/kv"
)

// Settings is the flat option map. Values have JSON-decoded types:
// bool, float64, string or []any of strings.
type Settings map[string]any

const defaultSettingsJSON = `{
  "autoDetect": true,
  "keywordHighlight": true,
  "autoSave": true,
  "newPageNotifications": true,
  "autosaveInterval": 2,
  "darkMode": false,
  "pinned": false,
  "fontSize": 14,
  "fontFamily": "Inter",
  "primaryColor": "#667eea",
  "accentColor": "#764ba2",
  "focusMode": true,
  "dimBackground": false,
  "blockedSites": ["facebook.com", "twitter.com", "instagram.com", "reddit.com"],
  "focusDuration": 25,
  "globalShortcuts": true,
  "developerMode": false,
  "privacyMode": true,
  "maxNotes": 500,
  "cleanupDays": 90,
  "youtubeIntegration": true,
  "udemyIntegration": true
}`

// DefaultSettings returns a fresh copy of the default option set.
func DefaultSettings() Settings {
	var s Settings
	if err := json.Unmarshal([]byte(defaultSettingsJSON), &s); err != nil {
		panic(fmt.Sprintf("default settings: %v", err))
	}
	return s
}

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool returns the boolean setting key, or its default.
func (s Settings) Bool(key string) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	v, _ := DefaultSettings()[key].(bool)
	return v
}

// Int returns the numeric setting key truncated to int, or its default.
func (s Settings) Int(key string) int {
	if v, ok := toInt(s[key]); ok {
		return v
	}
	v, _ := toInt(DefaultSettings()[key])
	return v
}

// String returns the string setting key, or its default.
func (s Settings) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	v, _ := DefaultSettings()[key].(string)
	return v
}

// Strings returns the string-list setting key, or its default.
func (s Settings) Strings(key string) []string {
	if v, ok := toStrings(s[key]); ok {
		return v
	}
	v, _ := toStrings(DefaultSettings()[key])
	return v
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		switch {
		case math.IsNaN(n):
			return 0, false
		case n >= math.MaxInt:
			return math.MaxInt, true
		case n <= math.MinInt:
			return math.MinInt, true
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// SettingsStore holds the settings record.
type SettingsStore struct {
	kv kv.Store
	mu sync.Mutex
}

// NewSettingsStore returns a SettingsStore over s.
func NewSettingsStore(s kv.Store) *SettingsStore {
	return &SettingsStore{kv: s}
}

// Init writes the defaults if no settings record exists. Reports whether it wrote.
func (s *SettingsStore) Init(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored Settings
	found, err := readJSON(ctx, s.kv, kv.KeySettings, &stored)
	if err != nil || found {
		return false, err
	}
	return true, writeJSON(ctx, s.kv, kv.KeySettings, DefaultSettings())
}

// Load returns the defaults overlaid with the stored top-level keys.
// Nested values are taken from storage as-is.
func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	var stored Settings
	if _, err := readJSON(ctx, s.kv, kv.KeySettings, &stored); err != nil {
		return nil, err
	}
	out := DefaultSettings()
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored settings wholesale.
func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(ctx, s.kv, kv.KeySettings, settings)
}

// Reset stores the defaults and returns them.
func (s *SettingsStore) Reset(ctx context.Context) (Settings, error) {
	defaults := DefaultSettings()
	if err := s.Save(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Set parses raw according to the type of key's default value and stores it.
// Returns the full settings after the write.
func (s *SettingsStore) Set(ctx context.Context, key, raw string) (Settings, error) {
	def, known := DefaultSettings()[key]
	if !known {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown setting: %s", key))
	}
	value, err := ParseSettingValue(def, raw)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid value for %s: %v", key, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored Settings
	if _, err := readJSON(ctx, s.kv, kv.KeySettings, &stored); err != nil {
		return nil, err
	}
	current := DefaultSettings()
	for k, v := range stored {
		current[k] = v
	}
	current[key] = value
	if err := writeJSON(ctx, s.kv, kv.KeySettings, current); err != nil {
		return nil, err
	}
	return current, nil
}

// ParseSettingValue converts raw into the same type as def.
// Lists accept a JSON array or a comma-separated string.
func ParseSettingValue(def any, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch def.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("not a finite number: %s", raw)
		}
		return n, nil
	case string:
		return raw, nil
	case []any:
		var list []string
		if strings.HasPrefix(raw, "[") {
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				return nil, err
			}
		} else {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					list = append(list, part)
				}
			}
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported setting type %T", def)
	}
}
