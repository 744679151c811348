// Package challenge selects and tracks the weekly challenge.
package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/store"
)

// Templates are the weekly challenges a selection is drawn from.
var Templates = []model.WeeklyChallenge{
	{Title: "Color Artist", Description: "Complete 3 memory games without a mistake"},
	{Title: "Concentration Master", Description: "Reach 500 points in a single game"},
	{Title: "Dedicated Explorer", Description: "Play every available game"},
	{Title: "Precision Champion", Description: "Get 95% accuracy in any game"},
}

// Selector owns the stored weekly challenge.
type Selector struct {
	kv  store.KV
	src generator.Source
	now func() time.Time
}

// NewSelector returns a Selector drawing from src.
func NewSelector(kv store.KV, src generator.Source, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{kv: kv, src: src, now: now}
}

// Current returns the stored challenge, selecting and persisting one when none exists.
func (s *Selector) Current(ctx context.Context) (model.WeeklyChallenge, error) {
	var wc model.WeeklyChallenge
	ok, err := store.LoadJSON(ctx, s.kv, store.KeyChallenge, &wc)
	if err != nil {
		return model.WeeklyChallenge{}, err
	}
	if ok {
		return wc, nil
	}
	return s.Reroll(ctx)
}

// Reroll replaces the stored challenge with a fresh uniform pick.
func (s *Selector) Reroll(ctx context.Context) (model.WeeklyChallenge, error) {
	wc := generator.Pick(s.src, Templates)
	if err := store.SaveJSON(ctx, s.kv, store.KeyChallenge, wc); err != nil {
		return model.WeeklyChallenge{}, err
	}
	return wc, nil
}

// Complete marks the stored challenge completed.
func (s *Selector) Complete(ctx context.Context) (model.WeeklyChallenge, error) {
	wc, err := s.Current(ctx)
	if err != nil {
		return model.WeeklyChallenge{}, err
	}
	if wc.Completed {
		return wc, nil
	}
	at := s.now().UTC()
	wc.Completed = true
	wc.CompletedAt = &at
	if err := store.SaveJSON(ctx, s.kv, store.KeyChallenge, wc); err != nil {
		return wc, fmt.Errorf("failed to save completed challenge: %w", err)
	}
	return wc, nil
}
