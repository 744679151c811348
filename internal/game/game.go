// Package game implements the rules of the individual mini-games.
//
// A Game owns only its prompt state. The running score belongs to the
// session controller, which passes it into Handle and stores the returned
// Outcome. Games are restarted from scratch by Start and keep nothing
// between runs.
package game

import (
	"fmt"

	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

// Event is a player input routed to the active game.
type Event interface {
	isEvent()
}

// ColorPressed is a press on one of the color pads.
type ColorPressed struct {
	Color string
}

// ShapePressed is a press on the shape in board slot Index.
type ShapePressed struct {
	Index int
}

// PointerMoved reports the pointer position in percent coordinates.
type PointerMoved struct {
	X float64
	Y float64
}

// TilePressed is a press on puzzle tile Tile.
type TilePressed struct {
	Tile int
}

// ChallengeCompleted marks the weekly challenge as done.
type ChallengeCompleted struct{}

func (ColorPressed) isEvent()       {}
func (ShapePressed) isEvent()       {}
func (PointerMoved) isEvent()       {}
func (TilePressed) isEvent()        {}
func (ChallengeCompleted) isEvent() {}

// Timer is a game-owned timed transition.
type Timer int

const (
	// SequenceShown ends the color sequence playback.
	SequenceShown Timer = iota
	// TargetMove relocates the pursuit target.
	TargetMove
)

// Outcome is the result of handling one input.
type Outcome struct {
	// Score is the new running score.
	Score int
	// Over ends the session with Score as the final score.
	Over bool
	// Accepted is false when the input was ignored.
	Accepted bool
}

// Game is the per-game state machine driven by the session controller.
type Game interface {
	ID() model.GameID
	Start(src generator.Source)
	Handle(ev Event, score int) Outcome
	Advance(t Timer)
	Accuracy() float64
}

// New returns a fresh game for id.
func New(id model.GameID) (Game, error) {
	switch id {
	case model.GameColorMemory:
		return &ColorMemory{}, nil
	case model.GameSelectiveAttention:
		return &SelectiveAttention{}, nil
	case model.GameSustainedFocus:
		return &SustainedFocus{}, nil
	case model.GamePuzzle:
		return &Puzzle{}, nil
	case model.GameWeeklyChallenge:
		return &Challenge{}, nil
	default:
		return nil, fmt.Errorf("unknown game %q", id)
	}
}

func ignored(score int) Outcome {
	return Outcome{Score: score}
}
