package game

import (
	"math"

	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

// Pursuit distance tiers in percent units.
const (
	innerRadius = 10
	outerRadius = 20
	outerAcc    = 80
	onTargetPts = 2
)

// SustainedFocus is the pursuit-tracking game.
type SustainedFocus struct {
	src      generator.Source
	target   generator.Point
	pointer  generator.Point
	accuracy float64
}

// ID implements Game.
func (g *SustainedFocus) ID() model.GameID { return model.GameSustainedFocus }

// Start places the target and resets accuracy to 100.
func (g *SustainedFocus) Start(src generator.Source) {
	g.src = src
	g.accuracy = 100
	g.pointer = generator.Point{}
	g.target = generator.Position(src)
}

// Handle buckets the pointer distance to the target.
func (g *SustainedFocus) Handle(ev Event, score int) Outcome {
	move, ok := ev.(PointerMoved)
	if !ok {
		return ignored(score)
	}
	g.pointer = generator.Point{X: move.X, Y: move.Y}
	d := Distance(g.pointer, g.target)
	switch {
	case d < innerRadius:
		score += onTargetPts
		g.accuracy = 100
	case d < outerRadius:
		g.accuracy = outerAcc
	default:
		g.accuracy = math.Max(0, g.accuracy-1)
	}
	return Outcome{Score: score, Accepted: true}
}

// Advance moves the target on TargetMove.
func (g *SustainedFocus) Advance(t Timer) {
	if t == TargetMove && g.src != nil {
		g.target = generator.Position(g.src)
	}
}

// Accuracy is the current focus accuracy.
func (g *SustainedFocus) Accuracy() float64 { return g.accuracy }

// Target returns the target position.
func (g *SustainedFocus) Target() generator.Point { return g.target }

// Pointer returns the last pointer position.
func (g *SustainedFocus) Pointer() generator.Point { return g.pointer }

// Distance is the Euclidean distance between two points.
func Distance(a, b generator.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
