package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
)

func otherColor(c string) string {
	for _, candidate := range Colors {
		if candidate != c {
			return candidate
		}
	}
	return ""
}

func TestNewKnowsEveryGame(t *testing.T) {
	for _, id := range model.AllGames {
		g, err := New(id)
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
	}
	_, err := New("snake")
	require.Error(t, err)
}

func TestColorMemoryAwardsTenPerElementAndExtends(t *testing.T) {
	g := &ColorMemory{}
	g.Start(generator.New(3))
	require.Len(t, g.Sequence(), 1)
	require.True(t, g.Showing())

	out := g.Handle(ColorPressed{Color: g.Sequence()[0]}, 0)
	assert.False(t, out.Accepted, "input during playback must be ignored")

	score := 0
	for round := 1; round <= 4; round++ {
		g.Advance(SequenceShown)
		seq := g.Sequence()
		require.Len(t, seq, round)
		for _, c := range seq {
			out = g.Handle(ColorPressed{Color: c}, score)
			require.True(t, out.Accepted)
			require.False(t, out.Over)
			score = out.Score
		}
		assert.Len(t, g.Sequence(), round+1)
		assert.True(t, g.Showing())
	}
	assert.Equal(t, 10+20+30+40, score)
}

func TestColorMemoryMismatchEndsWithoutScoreChange(t *testing.T) {
	g := &ColorMemory{}
	g.Start(generator.New(11))
	g.Advance(SequenceShown)
	out := g.Handle(ColorPressed{Color: g.Sequence()[0]}, 0)
	require.Equal(t, 10, out.Score)

	g.Advance(SequenceShown)
	seq := g.Sequence()
	out = g.Handle(ColorPressed{Color: otherColor(seq[0])}, out.Score)
	assert.True(t, out.Over)
	assert.Equal(t, 10, out.Score)
	assert.InDelta(t, 20.0, g.Accuracy(), 1e-9)
}

func TestSelectiveAttentionScoring(t *testing.T) {
	g := &SelectiveAttention{}
	g.Start(generator.New(5))
	require.Len(t, g.Board(), BoardSize)

	// Force a known board.
	g.board[0].Kind = g.target
	g.board[1].Kind = otherShape(g.target)

	out := g.Handle(ShapePressed{Index: 1}, 3)
	assert.True(t, out.Accepted)
	assert.Equal(t, 0, out.Score, "penalty is floored at zero")

	out = g.Handle(ShapePressed{Index: 0}, 10)
	assert.Equal(t, 25, out.Score)
	assert.Equal(t, 1, g.Correct())
	assert.False(t, out.Over)

	out = g.Handle(ShapePressed{Index: BoardSize}, 25)
	assert.False(t, out.Accepted)
}

func TestSelectiveAttentionEndsAfterTwentyHits(t *testing.T) {
	g := &SelectiveAttention{}
	g.Start(generator.New(8))
	score := 0
	var out Outcome
	for i := 0; i < HitsToWin; i++ {
		g.board[0].Kind = g.target
		out = g.Handle(ShapePressed{Index: 0}, score)
		score = out.Score
	}
	assert.True(t, out.Over)
	assert.Equal(t, HitsToWin*15, score)
	assert.InDelta(t, 100.0, g.Accuracy(), 1e-9)
}

func otherShape(s string) string {
	for _, candidate := range Shapes {
		if candidate != s {
			return candidate
		}
	}
	return ""
}

func TestSustainedFocusTiers(t *testing.T) {
	g := &SustainedFocus{}
	g.Start(generator.New(1))
	g.target = generator.Point{X: 50, Y: 50}

	out := g.Handle(PointerMoved{X: 55, Y: 50}, 0)
	assert.Equal(t, 2, out.Score)
	assert.InDelta(t, 100.0, g.Accuracy(), 1e-9)

	out = g.Handle(PointerMoved{X: 50, Y: 65}, out.Score)
	assert.Equal(t, 2, out.Score)
	assert.InDelta(t, 80.0, g.Accuracy(), 1e-9)

	out = g.Handle(PointerMoved{X: 90, Y: 90}, out.Score)
	assert.Equal(t, 2, out.Score)
	assert.InDelta(t, 79.0, g.Accuracy(), 1e-9)

	g.accuracy = 0.5
	g.Handle(PointerMoved{X: 0, Y: 0}, 0)
	assert.InDelta(t, 0.0, g.Accuracy(), 1e-9)
}

func TestSustainedFocusTargetMoves(t *testing.T) {
	g := &SustainedFocus{}
	g.Start(generator.New(42))
	before := g.Target()
	g.Advance(TargetMove)
	after := g.Target()
	assert.NotEqual(t, before, after)
	assert.GreaterOrEqual(t, after.X, 10.0)
	assert.Less(t, after.Y, 85.0)
}

func TestAdjacent(t *testing.T) {
	cases := []struct {
		a, b int
		want bool
	}{
		{0, 1, true},
		{0, 3, true},
		{4, 7, true},
		{2, 3, false},
		{0, 4, false},
		{4, 4, false},
		{0, 6, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Adjacent(tc.a, tc.b), "Adjacent(%d,%d)", tc.a, tc.b)
	}
}

func TestPuzzleStartIsSolvableAndScrambled(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g := &Puzzle{}
		g.Start(generator.New(seed))
		assert.False(t, g.solved(), "seed %d", seed)
		assert.True(t, g.solvable(), "seed %d", seed)
		assert.Zero(t, g.Moves())
	}
}

func TestPuzzleRejectsNonAdjacentMoves(t *testing.T) {
	g := &Puzzle{}
	for i := range g.positions {
		g.positions[i] = i
	}
	// Blank in cell 4, tile 4 in cell 8.
	g.positions[Blank], g.positions[4] = 4, 8

	out := g.Handle(TilePressed{Tile: 0}, 0)
	assert.False(t, out.Accepted, "diagonal move")
	out = g.Handle(TilePressed{Tile: Blank}, 0)
	assert.False(t, out.Accepted, "blank itself")

	out = g.Handle(TilePressed{Tile: 1}, 0)
	assert.True(t, out.Accepted)
	assert.Equal(t, 1, g.Moves())
	assert.Equal(t, 1, g.Cells()[4])
	assert.Equal(t, Blank, g.Cells()[1])
}

func TestPuzzleCompletion(t *testing.T) {
	g := &Puzzle{}
	for i := range g.positions {
		g.positions[i] = i
	}
	g.positions[7], g.positions[Blank] = 8, 7
	g.moves = 9

	out := g.Handle(TilePressed{Tile: 7}, 0)
	require.True(t, out.Over)
	assert.Equal(t, 10, g.Moves())
	assert.Equal(t, 500-9*5, out.Score)
	assert.True(t, g.Completed())
	assert.InDelta(t, 100.0, g.Accuracy(), 1e-9)

	out = g.Handle(TilePressed{Tile: 5}, out.Score)
	assert.False(t, out.Accepted, "presses after completion are ignored")
}

func TestPuzzleScoreFloor(t *testing.T) {
	g := &Puzzle{}
	for i := range g.positions {
		g.positions[i] = i
	}
	g.positions[5], g.positions[Blank] = 8, 5
	g.moves = 200
	out := g.Handle(TilePressed{Tile: 5}, 0)
	require.True(t, out.Over)
	assert.Equal(t, 100, out.Score)
}

func TestPuzzleAccuracyWhenUnsolved(t *testing.T) {
	g := &Puzzle{}
	g.Start(generator.New(9))
	assert.InDelta(t, 0.0, g.Accuracy(), 1e-9)
}

func TestChallengeCompletesOnce(t *testing.T) {
	g := &Challenge{}
	g.Start(nil)
	out := g.Handle(ChallengeCompleted{}, 0)
	assert.True(t, out.Over)
	assert.Equal(t, ChallengePoints, out.Score)
	assert.True(t, g.Completed())

	out = g.Handle(ChallengeCompleted{}, out.Score)
	assert.False(t, out.Accepted)
	assert.False(t, g.Handle(TilePressed{}, 0).Accepted)
}
