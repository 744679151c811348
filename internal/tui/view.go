package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/focusplay/internal/game"
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/stats"
)

const (
	fieldWidth  = 40
	fieldHeight = 12
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	fieldStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	tileStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	blankTileStyle = tileStyle.BorderForeground(lipgloss.Color("#262626"))

	padColors = map[string]lipgloss.Color{
		"red":    "#FF4D4F",
		"blue":   "#3A7BD5",
		"green":  "#52C41A",
		"yellow": "#FADB14",
		"purple": "#9254DE",
		"pink":   "#F759AB",
	}

	shapeGlyphs = map[string]string{
		"circle":   "●",
		"square":   "■",
		"triangle": "▲",
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	var content, helpLine string
	switch m.screen {
	case screenSignIn:
		content = m.renderSignIn()
		helpLine = m.help.ShortHelpView([]key.Binding{m.keys.Quit})
	case screenMenu:
		content = m.renderMenu()
		helpLine = m.help.View(menuKeys(m.keys))
	case screenGame:
		content = m.renderGame()
		helpLine = m.help.View(gameKeys{keyMap: m.keys, input: m.inputKeys()})
	case screenResult:
		content = m.renderResult()
		helpLine = m.help.ShortHelpView([]key.Binding{m.keys.Select, m.keys.Quit})
	}
	if m.errMsg != "" {
		content += "\n\n" + errorStyle.Render(m.errMsg)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, helpLine}, "\n")
	}
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpRow := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footerLine + "\n" + helpRow
}

func (m *Model) renderSignIn() string {
	lines := []string{
		titleStyle.Render("Sign in required"),
		"",
		textStyle.Render("Sign in on the hosted page, then store your access token:"),
	}
	if m.deps.ProviderURL != "" {
		lines = append(lines, "", accentStyle.Render(m.deps.ProviderURL))
	}
	lines = append(lines,
		"",
		mutedStyle.Render("focusplay login --token <token>"),
		"",
		mutedStyle.Render("Waiting for a session..."),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render("Focus Play"), ""}
	for i, id := range model.AllGames {
		label := fmt.Sprintf("%d. %-22s %s", i+1, id.Title(), id.Description())
		if id == model.GameWeeklyChallenge && m.challenge.Title != "" {
			label = fmt.Sprintf("%d. %-22s %s", i+1, id.Title(), m.challenge.Title)
			if m.challenge.Completed {
				label += " (done)"
			}
		}
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+label))
			continue
		}
		lines = append(lines, textStyle.Render("  "+label))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderGame() string {
	ctrl := m.deps.Controller
	id := ctrl.Active()
	header := titleStyle.Render(id.Title())
	var body string
	switch g := ctrl.Game().(type) {
	case *game.ColorMemory:
		body = m.renderColorMemory(g)
	case *game.SelectiveAttention:
		body = renderSelectiveAttention(g)
	case *game.SustainedFocus:
		body = renderSustainedFocus(g)
	case *game.Puzzle:
		body = renderPuzzle(g)
	case *game.Challenge:
		body = m.renderChallenge()
	}
	if ctrl.Paused() {
		body += "\n\n" + accentStyle.Render("Paused. Press p to resume.")
	}
	return header + "\n\n" + body
}

func (m *Model) renderColorMemory(g *game.ColorMemory) string {
	seq := g.Sequence()
	lit := ""
	if m.playback >= 0 && m.playback < len(seq) {
		lit = seq[m.playback]
	}
	pads := make([]string, 0, len(game.Colors))
	for i, c := range game.Colors {
		style := lipgloss.NewStyle().
			Width(8).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(padColors[c])
		label := fmt.Sprintf("%d %s", i+1, c)
		if c == lit {
			style = style.Background(padColors[c]).Foreground(lipgloss.Color("#000000")).Bold(true)
		} else {
			style = style.Foreground(padColors[c])
		}
		pads = append(pads, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, pads...)
	status := fmt.Sprintf("Your turn: %d/%d", g.Entered(), len(seq))
	if g.Showing() {
		status = fmt.Sprintf("Watch the sequence (%d)", len(seq))
	}
	return row + "\n\n" + mutedStyle.Render(status)
}

func renderSelectiveAttention(g *game.SelectiveAttention) string {
	marks := make([]fieldMark, 0, len(g.Board()))
	for i, s := range g.Board() {
		marks = append(marks, fieldMark{
			Pos:   s.Pos,
			Label: fmt.Sprintf("%d%s", i+1, shapeGlyphs[s.Kind]),
		})
	}
	target := fmt.Sprintf("Find: %s %s", shapeGlyphs[g.Target()], g.Target())
	progressLine := fmt.Sprintf("Hits %d/%d", g.Correct(), game.HitsToWin)
	return accentStyle.Render(target) + "\n" +
		fieldStyle.Render(plotField(fieldWidth, fieldHeight, spreadMarks(fieldWidth, fieldHeight, marks))) + "\n" +
		mutedStyle.Render(progressLine)
}

func renderSustainedFocus(g *game.SustainedFocus) string {
	marks := []fieldMark{
		{Pos: g.Target(), Label: "◎"},
		{Pos: g.Pointer(), Label: "+"},
	}
	dist := game.Distance(g.Target(), g.Pointer())
	info := fmt.Sprintf("Distance %.0f  Accuracy %.0f%%", dist, g.Accuracy())
	return fieldStyle.Render(plotField(fieldWidth, fieldHeight, marks)) + "\n" + mutedStyle.Render(info)
}

func renderPuzzle(g *game.Puzzle) string {
	cells := g.Cells()
	rows := make([]string, 0, game.PuzzleSide)
	for r := 0; r < game.PuzzleSide; r++ {
		tiles := make([]string, 0, game.PuzzleSide)
		for c := 0; c < game.PuzzleSide; c++ {
			tile := cells[r*game.PuzzleSide+c]
			if tile == game.Blank {
				tiles = append(tiles, blankTileStyle.Render(""))
				continue
			}
			tiles = append(tiles, tileStyle.Render(fmt.Sprintf("%d", tile+1)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return grid + "\n" + mutedStyle.Render(fmt.Sprintf("Moves %d", g.Moves()))
}

func (m *Model) renderChallenge() string {
	wc := m.challenge
	lines := []string{accentStyle.Render(wc.Title), textStyle.Render(wc.Description), ""}
	if wc.Completed {
		lines = append(lines, mutedStyle.Render("Already completed this week."))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("Press enter when done (+%d)", game.ChallengePoints)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResult() string {
	if m.last == nil {
		return ""
	}
	s := m.last.Session
	lines := []string{
		titleStyle.Render(s.GameID.Title() + " complete"),
		"",
		textStyle.Render(fmt.Sprintf("Score     %d", s.Score)),
		textStyle.Render(fmt.Sprintf("Accuracy  %.0f%%", s.Accuracy)),
		textStyle.Render(fmt.Sprintf("Time      %s", stats.FormatDuration(s.Duration))),
	}
	for _, k := range m.last.Fold.Unlocked {
		for _, a := range model.Achievements {
			if a.Key == k {
				lines = append(lines, accentStyle.Render("Achievement unlocked: "+a.Name))
			}
		}
	}
	if m.last.Fold.LevelUp {
		lines = append(lines, accentStyle.Render(fmt.Sprintf("Level up! Now level %d", m.last.Fold.Progress.Level)))
	}
	if m.last.Challenge != nil && m.last.Challenge.Completed {
		lines = append(lines, accentStyle.Render("Weekly challenge completed: "+m.last.Challenge.Title))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.screen {
	case screenGame:
		ctrl := m.deps.Controller
		segments = append(segments,
			fmt.Sprintf("Score %d", ctrl.Score()),
			"Time "+stats.FormatDuration(ctrl.Elapsed()),
		)
		if rem := ctrl.Remaining(); rem >= 0 {
			segments = append(segments, "Left "+stats.FormatDuration(rem))
		}
		if ctrl.Paused() {
			segments = append(segments, "Paused")
		}
	default:
		if m.deps.Progress == nil {
			return ""
		}
		p := m.deps.Progress.Snapshot()
		segments = append(segments,
			fmt.Sprintf("Points %d", p.TotalPoints),
			fmt.Sprintf("Level %d (%d/%d)", p.Level, progress.LevelProgress(p.TotalPoints), progress.PointsPerLevel),
			fmt.Sprintf("Streak %d", p.Streak),
		)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) inputKeys() []key.Binding {
	switch m.deps.Controller.Active() {
	case model.GameColorMemory:
		return []key.Binding{key.NewBinding(key.WithKeys("1"), key.WithHelp("1-6", "color"))}
	case model.GameSelectiveAttention:
		return []key.Binding{key.NewBinding(key.WithKeys("1"), key.WithHelp("1-8", "shape"))}
	case model.GameSustainedFocus:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}
	case model.GamePuzzle:
		return []key.Binding{key.NewBinding(key.WithKeys("1"), key.WithHelp("1-8", "slide tile"))}
	case model.GameWeeklyChallenge:
		return []key.Binding{m.keys.Select}
	}
	return nil
}

type fieldMark struct {
	Pos   generator.Point
	Label string
}

// plotField places labels on a width x height grid addressed in percent.
// Later marks overwrite earlier ones where they overlap; callers that need
// every label readable pass the marks through spreadMarks first.
func plotField(width, height int, marks []fieldMark) string {
	if width < 1 || height < 1 {
		return ""
	}
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for _, mk := range marks {
		col := cellFor(mk.Pos.X, width)
		row := cellFor(mk.Pos.Y, height)
		label := []rune(mk.Label)
		if col+len(label) > width {
			col = max(0, width-len(label))
		}
		for i, r := range label {
			if col+i >= width {
				break
			}
			grid[row][col+i] = string(r)
		}
	}
	lines := make([]string, height)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

// spreadMarks moves marks to the nearest cells where their labels neither
// overlap nor touch another label.
func spreadMarks(width, height int, marks []fieldMark) []fieldMark {
	if width < 1 || height < 1 {
		return marks
	}
	used := make([][]bool, height)
	for r := range used {
		used[r] = make([]bool, width)
	}
	out := make([]fieldMark, len(marks))
	for i, mk := range marks {
		n := len([]rune(mk.Label))
		row := cellFor(mk.Pos.Y, height)
		col := min(cellFor(mk.Pos.X, width), max(0, width-n))
		if r, c, ok := freeSpan(used, row, col, n); ok {
			row, col = r, c
		}
		for j := col; j < col+n && j < width; j++ {
			used[row][j] = true
		}
		out[i] = fieldMark{
			Pos: generator.Point{
				X: (float64(col) + 0.5) * 100 / float64(width),
				Y: (float64(row) + 0.5) * 100 / float64(height),
			},
			Label: mk.Label,
		}
	}
	return out
}

// freeSpan searches outward from row/col for n free cells with a free
// neighbour on each side.
func freeSpan(used [][]bool, row, col, n int) (int, int, bool) {
	height, width := len(used), len(used[0])
	for dr := 0; dr < height; dr++ {
		for _, r := range [2]int{row + dr, row - dr} {
			if r < 0 || r >= height {
				continue
			}
			for dc := 0; dc <= width; dc++ {
				for _, c := range [2]int{col + dc, col - dc} {
					if c < 0 || c+n > width {
						continue
					}
					if spanFree(used[r], c, n) {
						return r, c, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

func spanFree(cells []bool, col, n int) bool {
	for j := col - 1; j <= col+n; j++ {
		if j >= 0 && j < len(cells) && cells[j] {
			return false
		}
	}
	return true
}

func cellFor(pct float64, size int) int {
	idx := int(math.Floor(clampPercent(pct) / 100 * float64(size)))
	return max(0, min(idx, size-1))
}
