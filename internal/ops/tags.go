package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/studynotes/internal/errors"
)

// TagsOutput carries the tag palette after an operation.
type TagsOutput struct {
	Tags    []string `json:"tags"`
	Changed bool     `json:"changed"`
}

// TagInput names one tag.
type TagInput struct {
	Name string `json:"name"`
}

// ListTags returns the tag palette.
func ListTags(ctx context.Context, env *Env) (*TagsOutput, error) {
	tags, err := env.Tags.List(ctx)
	if err != nil {
		return nil, err
	}
	return &TagsOutput{Tags: tags}, nil
}

// AddTag appends a tag unless it is blank or already present.
func AddTag(ctx context.Context, env *Env, input TagInput) (*TagsOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	changed, err := env.Tags.Add(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return tagsAfter(ctx, env, changed)
}

// RemoveTag removes a tag if present.
func RemoveTag(ctx context.Context, env *Env, input TagInput) (*TagsOutput, error) {
	if input.Name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	changed, err := env.Tags.Remove(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return tagsAfter(ctx, env, changed)
}

func tagsAfter(ctx context.Context, env *Env, changed bool) (*TagsOutput, error) {
	tags, err := env.Tags.List(ctx)
	if err != nil {
		return nil, err
	}
	return &TagsOutput{Tags: tags, Changed: changed}, nil
}
