package ops

import (
	"context"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/store"
)

// SettingsOutput carries the full settings map.
type SettingsOutput struct {
	Settings store.Settings `json:"settings"`
}

// GetSettings returns the stored settings over the defaults.
func GetSettings(ctx context.Context, env *Env) (*SettingsOutput, error) {
	s, err := env.Settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Settings: s}, nil
}

// SetSettingInput names one setting and its new value in text form.
type SetSettingInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSetting parses and stores one setting.
func SetSetting(ctx context.Context, env *Env, input SetSettingInput) (*SettingsOutput, error) {
	if input.Key == "" {
		return nil, errors.NewInvalidRequest("key is required")
	}
	s, err := env.Settings.Set(ctx, input.Key, input.Value)
	if err != nil {
		return nil, err
	}
	env.Logger.Debug().Str("key", input.Key).Msg("setting updated")
	return &SettingsOutput{Settings: s}, nil
}

// ResetSettings restores the defaults.
func ResetSettings(ctx context.Context, env *Env) (*SettingsOutput, error) {
	s, err := env.Settings.Reset(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Settings: s}, nil
}
