package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/focusplay/internal/challenge"
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/settings"
	"github.com/verte-zerg/focusplay/internal/store"
)

var testNow = time.Date(2026, 4, 6, 19, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (*Model, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	p := progress.New(kv)
	ctx := context.Background()
	for i, s := range []model.GameSession{
		{ID: "a", GameID: model.GameColorMemory, Score: 60, Duration: 30, Accuracy: 50, Timestamp: testNow},
		{ID: "b", GameID: model.GamePuzzle, Score: 420, Duration: 90, Accuracy: 100, Timestamp: testNow.Add(time.Hour)},
	} {
		if _, err := p.Fold(ctx, s); err != nil {
			t.Fatalf("fold %d: %v", i, err)
		}
	}
	m := NewModel(Deps{
		Progress:   p,
		Settings:   settings.New(kv),
		Challenges: challenge.NewSelector(kv, generator.New(2), func() time.Time { return testNow }),
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, kv
}

func keyString(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsProgress(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"Overview", "480", "[x] First Hundred", "Weekly Challenge", "Sliding Puzzle"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryRowsNewestFirstAndFiltered(t *testing.T) {
	m, _ := newTestModel(t)
	rows := historyRows(m.deps.Progress.Recent(0), "")
	if len(rows) != 2 || rows[0][1] != "Sliding Puzzle" {
		t.Fatalf("expected newest first, got %v", rows)
	}
	rows = historyRows(m.deps.Progress.Recent(0), model.GameColorMemory)
	if len(rows) != 1 || rows[0][2] != "60" {
		t.Fatalf("unexpected filtered rows: %v", rows)
	}
}

func TestMatchGame(t *testing.T) {
	cases := map[string]model.GameID{
		"":        "",
		"puzzle":  model.GamePuzzle,
		"Sliding": model.GamePuzzle,
		"color":   model.GameColorMemory,
		"weekly":  model.GameWeeklyChallenge,
	}
	for in, want := range cases {
		got, err := matchGame(in)
		if err != nil {
			t.Fatalf("matchGame(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("matchGame(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := matchGame("chess"); err == nil {
		t.Fatalf("expected error for unknown game")
	}
	if _, err := matchGame("s"); err == nil {
		t.Fatalf("expected error for ambiguous prefix")
	}
}

func TestHistoryFilterFlow(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}
	m.Update(keyString("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInput.SetValue("color")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || m.gameFilter != model.GameColorMemory {
		t.Fatalf("expected color filter, got %q", m.gameFilter)
	}
	if m.historyLayout.rowCount != 1 {
		t.Fatalf("expected one row, got %d", m.historyLayout.rowCount)
	}
}

func TestSettingsEditPersists(t *testing.T) {
	m, kv := newTestModel(t)
	m.activeTab = tabSettings
	m.Update(keyString("="))
	m.Update(keyString("="))
	if got := m.deps.Settings.Current().Difficulty; got != model.MaxDifficulty {
		t.Fatalf("expected difficulty clamped to %d, got %d", model.MaxDifficulty, got)
	}
	m.Update(keyString("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.deps.Settings.Current().SoundEnabled {
		t.Fatalf("expected sound toggled off")
	}

	reloaded := settings.New(kv)
	got, err := reloaded.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Difficulty != model.MaxDifficulty || got.SoundEnabled {
		t.Fatalf("settings not persisted: %+v", got)
	}
	if !strings.Contains(m.View(), "> Sound") {
		t.Fatalf("expected sound row selected:\n%s", m.View())
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	m.activeTab = tabSettings

	m.Update(keyString("R"))
	if !m.confirmReset || !strings.Contains(m.View(), "Reset progress?") {
		t.Fatalf("expected confirmation modal")
	}
	m.Update(keyString("n"))
	if m.confirmReset || m.deps.Progress.Snapshot().TotalPoints != 480 {
		t.Fatalf("cancel must keep progress")
	}

	m.Update(keyString("R"))
	m.Update(keyString("q"))
	if m.confirmReset {
		t.Fatalf("q must close the modal")
	}
	m.Update(keyString("R"))
	m.Update(keyString("y"))
	if got := m.deps.Progress.Snapshot(); got.TotalPoints != 0 || got.GamesPlayed != 0 || got.Level != 1 {
		t.Fatalf("expected zero progress, got %+v", got)
	}
	if m.progress.TotalPoints != 0 {
		t.Fatalf("view state not refreshed")
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nbb\nccc", 4, 2)
	if out != "a   \nbb  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
}
