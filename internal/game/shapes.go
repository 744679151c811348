package game

import (
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

// Shapes lists the shape kinds used by selective attention.
var Shapes = []string{"circle", "square", "triangle"}

const (
	// BoardSize is the number of shapes on the board.
	BoardSize = 8
	// HitsToWin ends selective attention.
	HitsToWin = 20

	hitPoints  = 15
	missPoints = 5
)

// Shape is one shape on the board.
type Shape struct {
	Kind string
	Pos  generator.Point
}

// SelectiveAttention is the target-discrimination game.
type SelectiveAttention struct {
	src     generator.Source
	target  string
	board   []Shape
	correct int
}

// ID implements Game.
func (g *SelectiveAttention) ID() model.GameID { return model.GameSelectiveAttention }

// Start draws a target shape and a fresh board.
func (g *SelectiveAttention) Start(src generator.Source) {
	g.src = src
	g.correct = 0
	g.target = generator.Pick(src, Shapes)
	g.regenerate()
}

func (g *SelectiveAttention) regenerate() {
	g.board = make([]Shape, BoardSize)
	for i := range g.board {
		g.board[i] = Shape{
			Kind: generator.Pick(g.src, Shapes),
			Pos:  generator.Position(g.src),
		}
	}
}

// Handle scores a press on a board slot.
func (g *SelectiveAttention) Handle(ev Event, score int) Outcome {
	press, ok := ev.(ShapePressed)
	if !ok || press.Index < 0 || press.Index >= len(g.board) {
		return ignored(score)
	}
	if g.board[press.Index].Kind != g.target {
		return Outcome{Score: max(0, score-missPoints), Accepted: true}
	}
	score += hitPoints
	g.correct++
	g.regenerate()
	return Outcome{Score: score, Over: g.correct >= HitsToWin, Accepted: true}
}

// Advance implements Game; selective attention has no timers.
func (g *SelectiveAttention) Advance(Timer) {}

// Accuracy is correct hits relative to HitsToWin.
func (g *SelectiveAttention) Accuracy() float64 {
	return float64(g.correct) / HitsToWin * 100
}

// Target returns the shape kind to press.
func (g *SelectiveAttention) Target() string { return g.target }

// Board returns the shapes currently shown.
func (g *SelectiveAttention) Board() []Shape {
	return append([]Shape(nil), g.board...)
}

// Correct returns the number of correct hits so far.
func (g *SelectiveAttention) Correct() int { return g.correct }
