package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/focusplay/internal/challenge"
	"github.com/verte-zerg/focusplay/internal/game"
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/store"
)

var testNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	kv       *store.Memory
	progress *progress.Store
	ctrl     *Controller
}

func newHarness(t *testing.T, limit time.Duration) *harness {
	t.Helper()
	kv := store.NewMemory()
	p := progress.New(kv)
	ctrl := NewController(Options{
		Progress:   p,
		Challenges: challenge.NewSelector(kv, generator.New(1), func() time.Time { return testNow }),
		Source:     generator.New(7),
		Now:        func() time.Time { return testNow },
		NewID:      func() string { return "session-1" },
		TimeLimit:  limit,
	})
	return &harness{kv: kv, progress: p, ctrl: ctrl}
}

func wrongColor(c string) string {
	for _, candidate := range game.Colors {
		if candidate != c {
			return candidate
		}
	}
	return ""
}

func TestStartResetsState(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GamePuzzle))
	for i := 0; i < 3; i++ {
		_, err := h.ctrl.Tick(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 3, h.ctrl.Elapsed())

	require.NoError(t, h.ctrl.Start(model.GameColorMemory))
	assert.Equal(t, 0, h.ctrl.Elapsed())
	assert.Equal(t, 0, h.ctrl.Score())
	assert.True(t, h.ctrl.Playing())
	assert.Equal(t, model.GameColorMemory, h.ctrl.Active())
}

func TestStartUnknownGame(t *testing.T) {
	h := newHarness(t, 0)
	err := h.ctrl.Start("tetris")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGame))
	assert.False(t, h.ctrl.Playing())
}

func TestColorMemoryRunFoldsIntoProgress(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GameColorMemory))
	cm := h.ctrl.Game().(*game.ColorMemory)

	h.ctrl.Advance(game.SequenceShown)
	out, res, err := h.ctrl.RecordInput(ctx, game.ColorPressed{Color: cm.Sequence()[0]})
	require.NoError(t, err)
	require.Nil(t, res)
	assert.Equal(t, 10, out.Score)

	_, err = h.ctrl.Tick(ctx)
	require.NoError(t, err)
	_, err = h.ctrl.Tick(ctx)
	require.NoError(t, err)

	h.ctrl.Advance(game.SequenceShown)
	_, res, err = h.ctrl.RecordInput(ctx, game.ColorPressed{Color: wrongColor(cm.Sequence()[0])})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, h.ctrl.Playing())
	assert.Equal(t, model.GameSession{
		ID:        "session-1",
		GameID:    model.GameColorMemory,
		Score:     10,
		Duration:  2,
		Accuracy:  20,
		Timestamp: testNow,
	}, res.Session)
	assert.Equal(t, 10, res.Fold.Progress.TotalPoints)
	assert.Equal(t, 1, res.Fold.Progress.GamesPlayed)
	assert.Equal(t, 10, h.progress.Snapshot().TotalPoints)
}

func TestInputIgnoredWhilePaused(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GameWeeklyChallenge))
	h.ctrl.TogglePause()
	require.True(t, h.ctrl.Paused())

	_, res, err := h.ctrl.RecordInput(ctx, game.ChallengeCompleted{})
	require.NoError(t, err)
	assert.Nil(t, res)
	_, err = h.ctrl.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, h.ctrl.Elapsed())

	h.ctrl.TogglePause()
	_, res, err = h.ctrl.RecordInput(ctx, game.ChallengeCompleted{})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestWeeklyChallengeCompletionIsStored(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GameWeeklyChallenge))
	_, res, err := h.ctrl.RecordInput(ctx, game.ChallengeCompleted{})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Challenge)
	assert.True(t, res.Challenge.Completed)
	assert.Equal(t, game.ChallengePoints, res.Session.Score)
	assert.InDelta(t, 100.0, res.Session.Accuracy, 1e-9)
	assert.True(t, res.Fold.Progress.HasAchievement(model.AchievementFirst100))

	wc, err := challenge.NewSelector(h.kv, generator.New(99), nil).Current(ctx)
	require.NoError(t, err)
	assert.True(t, wc.Completed)
}

func TestTimeLimitEndsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 3*time.Second)
	require.NoError(t, h.ctrl.Start(model.GameSustainedFocus))
	assert.Equal(t, 3, h.ctrl.Remaining())

	var res *Result
	var err error
	for i := 0; i < 3; i++ {
		res, err = h.ctrl.Tick(ctx)
		require.NoError(t, err)
	}
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Session.Duration)
	assert.InDelta(t, 100.0, res.Session.Accuracy, 1e-9)
	assert.False(t, h.ctrl.Playing())

	res, err = h.ctrl.Tick(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestAbortDoesNotRecord(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GamePuzzle))
	h.ctrl.Abort()
	assert.False(t, h.ctrl.Playing())
	assert.Equal(t, model.GameID(""), h.ctrl.Active())
	assert.Zero(t, h.progress.Snapshot().GamesPlayed)

	_, err := h.ctrl.End(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestEndWithExplicitScore(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GameSelectiveAttention))
	res, err := h.ctrl.End(context.Background(), 45)
	require.NoError(t, err)
	assert.Equal(t, 45, res.Session.Score)
	assert.Equal(t, model.GameSelectiveAttention, res.Session.GameID)
	assert.InDelta(t, 0.0, res.Session.Accuracy, 1e-9)
	assert.Equal(t, 45, h.progress.Snapshot().TotalPoints)
}

func TestEndClampsNegativeScore(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.ctrl.Start(model.GamePuzzle))
	_, err := h.ctrl.End(context.Background(), 30)
	require.NoError(t, err)
	before := h.progress.Snapshot().TotalPoints

	require.NoError(t, h.ctrl.Start(model.GameSelectiveAttention))
	res, err := h.ctrl.End(context.Background(), -10)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Session.Score)
	assert.Equal(t, before, res.Fold.Progress.TotalPoints)
	assert.Equal(t, before, h.progress.Snapshot().TotalPoints)
	assert.Equal(t, 2, h.progress.Snapshot().GamesPlayed)
}

func TestClampAccuracy(t *testing.T) {
	assert.InDelta(t, 100.0, clampAccuracy(130), 1e-9)
	assert.InDelta(t, 0.0, clampAccuracy(-4), 1e-9)
	assert.InDelta(t, 0.0, clampAccuracy(math.NaN()), 1e-9)
	assert.InDelta(t, 55.5, clampAccuracy(55.5), 1e-9)
}
