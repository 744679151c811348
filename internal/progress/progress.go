// Package progress folds completed sessions into the persisted lifetime aggregate.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/store"
)

const (
	// PointsPerLevel is the number of points between levels.
	PointsPerLevel = 500

	first100Threshold  = 100
	dedicatedThreshold = 10
	masterLevel        = 5
)

// FoldResult describes what a fold changed.
type FoldResult struct {
	Progress model.UserProgress
	Unlocked []string
	LevelUp  bool
}

// Store owns the progress aggregate and writes it whole after every change.
type Store struct {
	kv           store.KV
	state        model.UserProgress
	historyLimit int
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit keeps at most n sessions in the history. Zero keeps all.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// New returns a Store holding the zero state. Call Load to read persisted data.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{kv: kv, state: model.NewUserProgress()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted blob, if any.
func (s *Store) Load(ctx context.Context) (model.UserProgress, error) {
	loaded := model.NewUserProgress()
	ok, err := store.LoadJSON(ctx, s.kv, store.KeyProgress, &loaded)
	if err != nil {
		return model.UserProgress{}, err
	}
	if !ok {
		s.state = model.NewUserProgress()
		return s.Snapshot(), nil
	}
	if loaded.Achievements == nil {
		loaded.Achievements = []string{}
	}
	if loaded.Sessions == nil {
		loaded.Sessions = []model.GameSession{}
	}
	s.state = loaded
	return s.Snapshot(), nil
}

// Persist writes the whole aggregate.
func (s *Store) Persist(ctx context.Context) error {
	return store.SaveJSON(ctx, s.kv, store.KeyProgress, s.state)
}

// Fold merges a completed session into the aggregate and persists it.
// The in-memory state is updated even when the write fails.
func (s *Store) Fold(ctx context.Context, session model.GameSession) (FoldResult, error) {
	prevLevel := s.state.Level
	prevLast, hadPrev := s.lastSession()

	s.state.TotalPoints += session.Score
	s.state.GamesPlayed++
	s.state.Sessions = append(s.state.Sessions, session)
	if s.historyLimit > 0 && len(s.state.Sessions) > s.historyLimit {
		s.state.Sessions = append([]model.GameSession(nil), s.state.Sessions[len(s.state.Sessions)-s.historyLimit:]...)
	}
	s.state.Level = Level(s.state.TotalPoints)
	if hadPrev {
		s.state.Streak = NextStreak(s.state.Streak, prevLast.Timestamp, session.Timestamp)
	} else {
		s.state.Streak = 1
	}

	var unlocked []string
	if session.Score > first100Threshold {
		unlocked = s.unlock(model.AchievementFirst100, unlocked)
	}
	if s.state.GamesPlayed >= dedicatedThreshold {
		unlocked = s.unlock(model.AchievementDedicated, unlocked)
	}
	if s.state.Level >= masterLevel {
		unlocked = s.unlock(model.AchievementMaster, unlocked)
	}

	result := FoldResult{
		Progress: s.Snapshot(),
		Unlocked: unlocked,
		LevelUp:  s.state.Level > prevLevel,
	}
	if err := s.Persist(ctx); err != nil {
		return result, fmt.Errorf("failed to persist progress: %w", err)
	}
	return result, nil
}

func (s *Store) unlock(key string, unlocked []string) []string {
	if s.state.HasAchievement(key) {
		return unlocked
	}
	s.state.Achievements = append(s.state.Achievements, key)
	return append(unlocked, key)
}

func (s *Store) lastSession() (model.GameSession, bool) {
	if len(s.state.Sessions) == 0 {
		return model.GameSession{}, false
	}
	return s.state.Sessions[len(s.state.Sessions)-1], true
}

// Reset overwrites the aggregate with the zero state.
func (s *Store) Reset(ctx context.Context) error {
	s.state = model.NewUserProgress()
	if err := s.Persist(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the aggregate.
func (s *Store) Snapshot() model.UserProgress {
	out := s.state
	out.Achievements = append([]string{}, s.state.Achievements...)
	out.Sessions = append([]model.GameSession{}, s.state.Sessions...)
	return out
}

// Recent returns up to n sessions, newest first.
func (s *Store) Recent(n int) []model.GameSession {
	sessions := s.state.Sessions
	if n <= 0 || n > len(sessions) {
		n = len(sessions)
	}
	out := make([]model.GameSession, 0, n)
	for i := len(sessions) - 1; i >= len(sessions)-n; i-- {
		out = append(out, sessions[i])
	}
	return out
}

// Level derives the level from lifetime points.
func Level(totalPoints int) int {
	return totalPoints/PointsPerLevel + 1
}

// LevelProgress returns the points earned within the current level.
func LevelProgress(totalPoints int) int {
	return totalPoints % PointsPerLevel
}

// NextStreak counts consecutive calendar days with at least one game.
func NextStreak(streak int, prev, next time.Time) int {
	pd := dayOf(prev)
	nd := dayOf(next)
	switch {
	case nd.Equal(pd):
		if streak < 1 {
			return 1
		}
		return streak
	case nd.Equal(pd.AddDate(0, 0, 1)):
		return streak + 1
	default:
		return 1
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
