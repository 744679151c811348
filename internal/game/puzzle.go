package game

import (
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

const (
	// PuzzleSide is the board width and height.
	PuzzleSide = 3
	// PuzzleTiles is the number of cells, blank included.
	PuzzleTiles = PuzzleSide * PuzzleSide
	// Blank is the id of the empty tile.
	Blank = PuzzleTiles - 1

	puzzleMaxScore  = 500
	puzzleMinScore  = 100
	puzzleMovePenal = 5
)

// Puzzle is the 3x3 sliding puzzle. Tile i is home when it sits in cell i.
type Puzzle struct {
	positions [PuzzleTiles]int
	moves     int
	completed bool
}

// ID implements Game.
func (g *Puzzle) ID() model.GameID { return model.GamePuzzle }

// Start scrambles the board. Unsolvable and already solved scrambles are redrawn.
func (g *Puzzle) Start(src generator.Source) {
	g.moves = 0
	g.completed = false
	for {
		for i := range g.positions {
			g.positions[i] = i
		}
		generator.Shuffle(src, PuzzleTiles, func(i, j int) {
			g.positions[i], g.positions[j] = g.positions[j], g.positions[i]
		})
		if !g.solved() && g.solvable() {
			return
		}
	}
}

// Handle slides a tile into the blank when they are 4-neighbours.
func (g *Puzzle) Handle(ev Event, score int) Outcome {
	press, ok := ev.(TilePressed)
	if !ok || g.completed || press.Tile < 0 || press.Tile >= PuzzleTiles || press.Tile == Blank {
		return ignored(score)
	}
	if !Adjacent(g.positions[press.Tile], g.positions[Blank]) {
		return ignored(score)
	}
	g.positions[press.Tile], g.positions[Blank] = g.positions[Blank], g.positions[press.Tile]
	g.moves++
	if !g.solved() {
		return Outcome{Score: score, Accepted: true}
	}
	g.completed = true
	// The solving slide is free.
	return Outcome{
		Score:    max(puzzleMinScore, puzzleMaxScore-(g.moves-1)*puzzleMovePenal),
		Over:     true,
		Accepted: true,
	}
}

// Advance implements Game; the puzzle has no timers.
func (g *Puzzle) Advance(Timer) {}

// Accuracy is all or nothing.
func (g *Puzzle) Accuracy() float64 {
	if g.completed {
		return 100
	}
	return 0
}

// Adjacent reports whether two cells are exactly one row or one column apart.
func Adjacent(a, b int) bool {
	ar, ac := a/PuzzleSide, a%PuzzleSide
	br, bc := b/PuzzleSide, b%PuzzleSide
	return (abs(ar-br) == 1 && ac == bc) || (abs(ac-bc) == 1 && ar == br)
}

// Cells returns the tile id in each cell, row-major.
func (g *Puzzle) Cells() [PuzzleTiles]int {
	var cells [PuzzleTiles]int
	for tile, pos := range g.positions {
		cells[pos] = tile
	}
	return cells
}

// Moves returns the number of accepted moves.
func (g *Puzzle) Moves() int { return g.moves }

// Completed reports whether the board is solved.
func (g *Puzzle) Completed() bool { return g.completed }

func (g *Puzzle) solved() bool {
	for tile, pos := range g.positions {
		if tile != pos {
			return false
		}
	}
	return true
}

// solvable counts inversions among non-blank tiles; odd board width needs an even count.
func (g *Puzzle) solvable() bool {
	cells := g.Cells()
	inversions := 0
	for i := 0; i < PuzzleTiles; i++ {
		if cells[i] == Blank {
			continue
		}
		for j := i + 1; j < PuzzleTiles; j++ {
			if cells[j] != Blank && cells[i] > cells[j] {
				inversions++
			}
		}
	}
	return inversions%2 == 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
