package store

import (
	"context"
	"strings"
	"sync"

	"github.com/hpungsan/studynotes/internal/kv"
)

// DefaultTags is the palette written on install.
var DefaultTags = []string{"Study", "Important", "Review", "Exam"}

// TagRegistry holds the ordered, unique tag palette.
type TagRegistry struct {
	kv kv.Store
	mu sync.Mutex
}

// NewTagRegistry returns a TagRegistry over s.
func NewTagRegistry(s kv.Store) *TagRegistry {
	return &TagRegistry{kv: s}
}

// Init writes the default palette if none exists. Reports whether it wrote.
func (r *TagRegistry) Init(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tags []string
	found, err := readJSON(ctx, r.kv, kv.KeyTags, &tags)
	if err != nil || found {
		return false, err
	}
	return true, writeJSON(ctx, r.kv, kv.KeyTags, DefaultTags)
}

// List returns the palette, or the defaults if none is stored.
func (r *TagRegistry) List(ctx context.Context) ([]string, error) {
	var tags []string
	found, err := readJSON(ctx, r.kv, kv.KeyTags, &tags)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]string(nil), DefaultTags...), nil
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// Add appends name after trimming. Empty or already present names are a
// no-op and return false.
func (r *TagRegistry) Add(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tags, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tags {
		if t == name {
			return false, nil
		}
	}
	return true, writeJSON(ctx, r.kv, kv.KeyTags, append(tags, name))
}

// Remove deletes the first exact match of name. Returns false if absent.
func (r *TagRegistry) Remove(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tags, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for i, t := range tags {
		if t == name {
			tags = append(tags[:i], tags[i+1:]...)
			return true, writeJSON(ctx, r.kv, kv.KeyTags, tags)
		}
	}
	return false, nil
}
