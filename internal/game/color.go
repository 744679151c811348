package game

import (
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

// Colors is the color memory palette.
var Colors = []string{"red", "blue", "green", "yellow", "purple", "pink"}

// ColorMemory is the sequence-recall game.
type ColorMemory struct {
	src      generator.Source
	sequence []string
	player   []string
	showing  bool
}

// ID implements Game.
func (g *ColorMemory) ID() model.GameID { return model.GameColorMemory }

// Start clears both sequences and draws the first color.
func (g *ColorMemory) Start(src generator.Source) {
	g.src = src
	g.sequence = nil
	g.player = nil
	g.extend()
}

func (g *ColorMemory) extend() {
	g.sequence = append(g.sequence, generator.Pick(g.src, Colors))
	g.player = nil
	g.showing = true
}

// Handle compares a press against the next expected color.
func (g *ColorMemory) Handle(ev Event, score int) Outcome {
	press, ok := ev.(ColorPressed)
	if !ok || g.showing || len(g.sequence) == 0 {
		return ignored(score)
	}
	g.player = append(g.player, press.Color)
	idx := len(g.player) - 1
	if g.player[idx] != g.sequence[idx] {
		return Outcome{Score: score, Over: true, Accepted: true}
	}
	if len(g.player) == len(g.sequence) {
		score += 10 * len(g.sequence)
		g.extend()
	}
	return Outcome{Score: score, Accepted: true}
}

// Advance ends playback on SequenceShown.
func (g *ColorMemory) Advance(t Timer) {
	if t == SequenceShown {
		g.showing = false
	}
}

// Accuracy is the sequence length relative to ten.
func (g *ColorMemory) Accuracy() float64 {
	return float64(len(g.sequence)) / 10 * 100
}

// Sequence returns the colors to repeat.
func (g *ColorMemory) Sequence() []string {
	return append([]string(nil), g.sequence...)
}

// Entered returns how many colors of the current round were entered.
func (g *ColorMemory) Entered() int { return len(g.player) }

// Showing reports whether the sequence is being played back.
func (g *ColorMemory) Showing() bool { return g.showing }
