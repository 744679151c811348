// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
)

const sparkChars = " .:-=+*#%@"

// Summaries aggregates sessions per game, in menu order, skipping unplayed games.
func Summaries(sessions []model.GameSession) []model.GameSummary {
	byGame := map[model.GameID]*model.GameSummary{}
	for _, s := range sessions {
		sum, ok := byGame[s.GameID]
		if !ok {
			sum = &model.GameSummary{GameID: s.GameID}
			byGame[s.GameID] = sum
		}
		sum.Plays++
		sum.AvgScore += float64(s.Score)
		sum.AvgAccuracy += s.Accuracy
		sum.TotalTime += s.Duration
		if s.Score > sum.BestScore {
			sum.BestScore = s.Score
		}
	}
	out := make([]model.GameSummary, 0, len(byGame))
	for _, id := range model.AllGames {
		sum, ok := byGame[id]
		if !ok {
			continue
		}
		sum.AvgScore /= float64(sum.Plays)
		sum.AvgAccuracy /= float64(sum.Plays)
		out = append(out, *sum)
	}
	return out
}

// ScoreSeries returns the scores of sessions in order, optionally filtered by game.
func ScoreSeries(sessions []model.GameSession, id model.GameID) []float64 {
	out := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		if id != "" && s.GameID != id {
			continue
		}
		out = append(out, float64(s.Score))
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// RenderSummary prints the lifetime aggregate.
func RenderSummary(w io.Writer, p model.UserProgress) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Level: %d (%d/%d to next)", p.Level, progress.LevelProgress(p.TotalPoints), progress.PointsPerLevel),
		fmt.Sprintf("Total points: %d", p.TotalPoints),
		fmt.Sprintf("Games played: %d", p.GamesPlayed),
		fmt.Sprintf("Streak: %d", p.Streak),
	}
	achievements := make([]string, 0, len(model.Achievements))
	for _, a := range model.Achievements {
		mark := "[ ]"
		if p.HasAchievement(a.Key) {
			mark = "[x]"
		}
		achievements = append(achievements, fmt.Sprintf("%s %s", mark, a.Name))
	}
	lines = append(lines, "Achievements: "+strings.Join(achievements, "  "))
	if trend := Sparkline(ScoreSeries(p.Sessions, "")); trend != "" {
		lines = append(lines, "Score trend: "+trend)
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGameTable prints per-game aggregates.
func RenderGameTable(w io.Writer, sessions []model.GameSession) error {
	sums := Summaries(sessions)
	if len(sums) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Game"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			s.GameID.Title(),
			fmt.Sprintf("%d", s.Plays),
			fmt.Sprintf("%d", s.BestScore),
			fmt.Sprintf("%.1f", s.AvgScore),
			fmt.Sprintf("%.1f%%", s.AvgAccuracy),
			FormatDuration(s.TotalTime),
		})
	}
	return writeTable(w, gameColumns, rows)
}

// RenderRecent prints sessions newest first.
func RenderRecent(w io.Writer, recent []model.GameSession) error {
	if len(recent) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(recent))
	for _, s := range recent {
		rows = append(rows, []string{
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			s.GameID.Title(),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.0f%%", s.Accuracy),
			FormatDuration(s.Duration),
		})
	}
	return writeTable(w, recentColumns, rows)
}

var (
	gameColumns = []column{
		{Title: "Game", Max: 24},
		{Title: "Plays", Right: true},
		{Title: "Best", Right: true},
		{Title: "Avg Score", Right: true},
		{Title: "Avg Accuracy", Right: true},
		{Title: "Time", Right: true},
	}
	recentColumns = []column{
		{Title: "Date"},
		{Title: "Game", Max: 24},
		{Title: "Score", Right: true},
		{Title: "Accuracy", Right: true},
		{Title: "Time", Right: true},
	}
)

func writeTable(w io.Writer, cols []column, rows [][]string) error {
	for _, line := range layoutTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
