package stats

import "testing"

func TestLayoutTableAlignsColumns(t *testing.T) {
	cols := []column{{Title: "Game"}, {Title: "Best", Right: true}, {Title: "Plays", Right: true}}
	rows := [][]string{
		{"Puzzle", "450", "12"},
		{"Color Memory", "80"},
	}

	lines := layoutTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Game         Best Plays" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Puzzle        450    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Color Memory   80" {
		t.Fatalf("unexpected short row: %q", lines[2])
	}
}

func TestLayoutTableTruncatesAndMeasuresWideRunes(t *testing.T) {
	cols := []column{{Title: "Game", Max: 6}, {Title: "N", Right: true}}
	lines := layoutTable(cols, [][]string{{"Selective Attention", "1"}, {"集中", "2"}})
	if lines[1] != "Sel... 1" {
		t.Fatalf("unexpected truncated row: %q", lines[1])
	}
	if lines[2] != "集中   2" {
		t.Fatalf("unexpected wide row: %q", lines[2])
	}
	if layoutTable(nil, nil) != nil {
		t.Fatalf("expected no lines without columns")
	}
}
