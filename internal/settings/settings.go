// Package settings persists user game preferences.
package settings

import (
	"context"

	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/store"
)

// Store holds the current settings and writes them whole on every change.
type Store struct {
	kv      store.KV
	current model.GameSettings
}

// New returns a Store holding the default settings.
func New(kv store.KV) *Store {
	return &Store{kv: kv, current: model.DefaultSettings()}
}

// Load reads the persisted settings. Missing settings keep the defaults.
func (s *Store) Load(ctx context.Context) (model.GameSettings, error) {
	loaded := model.DefaultSettings()
	ok, err := store.LoadJSON(ctx, s.kv, store.KeySettings, &loaded)
	if err != nil {
		return model.GameSettings{}, err
	}
	if ok {
		s.current = Clamp(loaded)
	} else {
		s.current = model.DefaultSettings()
	}
	return s.current, nil
}

// Current returns the in-memory settings.
func (s *Store) Current() model.GameSettings {
	return s.current
}

// Update applies fn, clamps the result and persists it.
func (s *Store) Update(ctx context.Context, fn func(*model.GameSettings)) (model.GameSettings, error) {
	next := s.current
	fn(&next)
	s.current = Clamp(next)
	if err := store.SaveJSON(ctx, s.kv, store.KeySettings, s.current); err != nil {
		return s.current, err
	}
	return s.current, nil
}

// Reset restores and persists the defaults.
func (s *Store) Reset(ctx context.Context) (model.GameSettings, error) {
	return s.Update(ctx, func(g *model.GameSettings) {
		*g = model.DefaultSettings()
	})
}

// Clamp forces every value into its allowed range.
func Clamp(g model.GameSettings) model.GameSettings {
	g.Difficulty = clampInt(g.Difficulty, model.MinDifficulty, model.MaxDifficulty)
	g.SessionDuration = clampInt(g.SessionDuration, model.MinSessionDuration, model.MaxSessionDuration)
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
