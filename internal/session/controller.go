// Package session runs one mini-game at a time and hands finished sessions to the progress store.
package session

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/focusplay/internal/game"
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
)

var (
	// ErrNotPlaying is returned when an operation needs an active game.
	ErrNotPlaying = errors.New("no game in progress")
	// ErrUnknownGame is returned by Start for an unknown game id.
	ErrUnknownGame = errors.New("unknown game")
)

// Folder merges a finished session into the lifetime aggregate.
type Folder interface {
	Fold(ctx context.Context, s model.GameSession) (progress.FoldResult, error)
}

// ChallengeCompleter records completion of the weekly challenge.
type ChallengeCompleter interface {
	Complete(ctx context.Context) (model.WeeklyChallenge, error)
}

// Options wires a Controller.
type Options struct {
	Progress   Folder
	Challenges ChallengeCompleter
	Source     generator.Source
	Now        func() time.Time
	NewID      func() string
	// TimeLimit ends a session once elapsed time reaches it. Zero disables it.
	TimeLimit time.Duration
}

// Result is the summary of an ended session.
type Result struct {
	Session   model.GameSession
	Fold      progress.FoldResult
	Challenge *model.WeeklyChallenge
}

// Controller owns the lifecycle of the currently played game.
type Controller struct {
	opts Options

	active  game.Game
	score   int
	elapsed int
	playing bool
	paused  bool
}

// NewController returns an idle Controller.
func NewController(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Source == nil {
		opts.Source = generator.New(0)
	}
	return &Controller{opts: opts}
}

// Start resets score and time and begins a new run of id.
func (c *Controller) Start(id model.GameID) error {
	g, err := game.New(id)
	if err != nil {
		return errors.Join(ErrUnknownGame, err)
	}
	g.Start(c.opts.Source)
	c.active = g
	c.score = 0
	c.elapsed = 0
	c.playing = true
	c.paused = false
	return nil
}

// Tick advances elapsed time by one second. It ends the session when the time limit is reached.
func (c *Controller) Tick(ctx context.Context) (*Result, error) {
	if !c.running() {
		return nil, nil
	}
	c.elapsed++
	limit := int(c.opts.TimeLimit / time.Second)
	if limit > 0 && c.elapsed >= limit {
		return c.End(ctx, c.score)
	}
	return nil, nil
}

// RecordInput routes ev to the active game. A non-nil Result means the session ended.
func (c *Controller) RecordInput(ctx context.Context, ev game.Event) (game.Outcome, *Result, error) {
	if !c.running() {
		return game.Outcome{Score: c.score}, nil, nil
	}
	out := c.active.Handle(ev, c.score)
	c.score = out.Score
	if !out.Over {
		return out, nil, nil
	}
	res, err := c.End(ctx, out.Score)
	return out, res, err
}

// Advance forwards a game-owned timer event.
func (c *Controller) Advance(t game.Timer) {
	if c.running() {
		c.active.Advance(t)
	}
}

// End stops the session, records it and folds it into progress.
// The returned Result is valid even when persistence fails.
func (c *Controller) End(ctx context.Context, finalScore int) (*Result, error) {
	if c.active == nil || !c.playing {
		return nil, ErrNotPlaying
	}
	c.playing = false
	c.paused = false
	g := c.active
	c.score = finalScore

	s := model.GameSession{
		ID:        c.opts.NewID(),
		GameID:    g.ID(),
		Score:     max(0, finalScore),
		Duration:  c.elapsed,
		Accuracy:  clampAccuracy(g.Accuracy()),
		Timestamp: c.opts.Now(),
	}
	res := &Result{Session: s}

	var errs []error
	if done, ok := g.(*game.Challenge); ok && done.Completed() && c.opts.Challenges != nil {
		wc, err := c.opts.Challenges.Complete(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			res.Challenge = &wc
		}
	}
	if c.opts.Progress != nil {
		fold, err := c.opts.Progress.Fold(ctx, s)
		res.Fold = fold
		if err != nil {
			errs = append(errs, err)
		}
	}
	c.active = nil
	return res, errors.Join(errs...)
}

// Abort drops the current run without recording it.
func (c *Controller) Abort() {
	c.active = nil
	c.playing = false
	c.paused = false
	c.score = 0
	c.elapsed = 0
}

// TogglePause flips the pause state of a running game.
func (c *Controller) TogglePause() {
	if c.playing {
		c.paused = !c.paused
	}
}

// Game returns the active game, or nil.
func (c *Controller) Game() game.Game { return c.active }

// Active returns the id of the active game, or "".
func (c *Controller) Active() model.GameID {
	if c.active == nil {
		return ""
	}
	return c.active.ID()
}

// Score returns the running score.
func (c *Controller) Score() int { return c.score }

// Elapsed returns elapsed play time in seconds.
func (c *Controller) Elapsed() int { return c.elapsed }

// Playing reports whether a game is in progress.
func (c *Controller) Playing() bool { return c.playing }

// Paused reports whether the game in progress is paused.
func (c *Controller) Paused() bool { return c.paused }

// Remaining returns the seconds left before the time limit, or -1 without a limit.
func (c *Controller) Remaining() int {
	limit := int(c.opts.TimeLimit / time.Second)
	if limit <= 0 {
		return -1
	}
	return max(0, limit-c.elapsed)
}

func (c *Controller) running() bool {
	return c.active != nil && c.playing && !c.paused
}

func clampAccuracy(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
