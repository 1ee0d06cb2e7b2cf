package ops

import "context"

// InstallOutput reports which records were created.
type InstallOutput struct {
	Notes    bool `json:"notes_created"`
	Settings bool `json:"settings_created"`
	Tags     bool `json:"tags_created"`
}

// Install writes the empty note mapping, default settings and default tag
// palette. Existing records are left alone.
func Install(ctx context.Context, env *Env) (*InstallOutput, error) {
	out := &InstallOutput{}
	var err error
	if out.Notes, err = env.Notes.Init(ctx); err != nil {
		return nil, err
	}
	if out.Settings, err = env.Settings.Init(ctx); err != nil {
		return nil, err
	}
	if out.Tags, err = env.Tags.Init(ctx); err != nil {
		return nil, err
	}
	if out.Notes || out.Settings || out.Tags {
		env.Logger.Info().
			Bool("notes", out.Notes).
			Bool("settings", out.Settings).
			Bool("tags", out.Tags).
			Msg("initialized storage")
	}
	return out, nil
}
