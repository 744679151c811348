package game

import (
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

// ChallengePoints is awarded for completing the weekly challenge.
const ChallengePoints = 200

// Challenge is the scheduled weekly challenge.
type Challenge struct {
	completed bool
}

// ID implements Game.
func (g *Challenge) ID() model.GameID { return model.GameWeeklyChallenge }

// Start implements Game.
func (g *Challenge) Start(generator.Source) {
	g.completed = false
}

// Handle completes the challenge.
func (g *Challenge) Handle(ev Event, score int) Outcome {
	if _, ok := ev.(ChallengeCompleted); !ok || g.completed {
		return ignored(score)
	}
	g.completed = true
	return Outcome{Score: ChallengePoints, Over: true, Accepted: true}
}

// Advance implements Game.
func (g *Challenge) Advance(Timer) {}

// Accuracy is always 100.
func (g *Challenge) Accuracy() float64 { return 100 }

// Completed reports whether the challenge was completed in this run.
func (g *Challenge) Completed() bool { return g.completed }
