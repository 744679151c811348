// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/focusplay/internal/challenge"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/settings"
	"github.com/verte-zerg/focusplay/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabSettings
)

const (
	settingDifficulty = iota
	settingSound
	settingVibration
	settingDuration
	settingCount
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Deps wires the stats UI to the domain stores.
type Deps struct {
	Progress   *progress.Store
	Settings   *settings.Store
	Challenges *challenge.Selector
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	deps Deps

	progress  model.UserProgress
	challenge model.WeeklyChallenge
	errMsg    string

	tabs          []string
	activeTab     int
	overview      viewport.Model
	history       table.Model
	historyLayout tableLayout

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterError string
	gameFilter  model.GameID

	settingIndex int
	confirmReset bool
	notice       string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(deps Deps) *Model {
	m := &Model{
		deps:     deps,
		tabs:     []string{"Overview", "History", "Settings"},
		overview: viewport.New(0, 0),
		history:  buildHistoryTable(nil, 0, 1),
	}
	m.filterInput = newFilterInput("Game: ")
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabHistory {
			m.history.Focus()
		} else {
			m.history.Blur()
		}
		switch msg.String() {
		case "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		}
		switch m.activeTab {
		case tabSettings:
			return m.updateSettings(msg)
		case tabHistory:
			return m.updateHistory(msg)
		default:
			return m.updateOverview(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmReset {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateOverview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "g", "home":
		m.overview.GotoTop()
		return m, nil
	case "G", "end":
		m.overview.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.overview, cmd = m.overview.Update(msg)
	return m, cmd
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "/":
		return m.startFilter()
	case "g", "home":
		m.history.GotoTop()
		return m, nil
	case "G", "end":
		m.history.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "up", "k":
		m.settingIndex = (m.settingIndex - 1 + settingCount) % settingCount
	case "down", "j":
		m.settingIndex = (m.settingIndex + 1) % settingCount
	case "-":
		m.adjustSetting(-1)
	case "=", "+":
		m.adjustSetting(1)
	case "enter", " ":
		m.adjustSetting(1)
	case "D":
		if _, err := m.deps.Settings.Reset(context.Background()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.notice = "Settings restored to defaults."
	case "R":
		m.confirmReset = true
		m.notice = ""
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmReset = false
		if err := m.deps.Progress.Reset(context.Background()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.notice = "Progress reset."
		m.refresh()
	case "n", "N", "esc", "q":
		m.confirmReset = false
		m.notice = "Reset cancelled."
	}
	return m, nil
}

// adjustSetting steps the selected numeric value by delta or flips a toggle.
func (m *Model) adjustSetting(delta int) {
	if m.deps.Settings == nil {
		return
	}
	_, err := m.deps.Settings.Update(context.Background(), func(g *model.GameSettings) {
		switch m.settingIndex {
		case settingDifficulty:
			g.Difficulty += delta
		case settingSound:
			g.SoundEnabled = !g.SoundEnabled
		case settingVibration:
			g.VibrationEnabled = !g.VibrationEnabled
		case settingDuration:
			g.SessionDuration += delta
		}
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.notice = ""
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInput.SetValue(string(m.gameFilter))
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		id, err := matchGame(m.filterInput.Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.gameFilter = id
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		m.applyHistory(true)
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// matchGame resolves a case-insensitive prefix of a game id or title. Empty clears the filter.
func matchGame(input string) (model.GameID, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", nil
	}
	var found []model.GameID
	for _, id := range model.AllGames {
		if strings.HasPrefix(strings.ToLower(string(id)), input) || strings.HasPrefix(strings.ToLower(id.Title()), input) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("unknown game %q", input)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("ambiguous game %q", input)
	}
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = "color, puzzle, ..."
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) refresh() {
	if m.deps.Progress != nil {
		m.progress = m.deps.Progress.Snapshot()
	}
	if m.deps.Challenges != nil {
		wc, err := m.deps.Challenges.Current(context.Background())
		if err != nil {
			m.errMsg = err.Error()
		} else {
			m.challenge = wc
		}
	}
	m.applyHistory(true)
	m.renderOverview()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && (m.errMsg != "" || m.notice != "") {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.setHistorySize(m.width, bodyHeight)
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = max(10, m.width-promptWidth-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
	if m.activeTab == tabOverview {
		m.refresh()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	game := "all"
	if m.gameFilter != "" {
		game = m.gameFilter.Title()
	}
	summary := fmt.Sprintf("Level %d  Points %d  Games %d  History filter: %s",
		m.progress.Level, m.progress.TotalPoints, m.progress.GamesPlayed, game)
	return tabs + "\n" + padLines(headerStyle.Render(truncateLine(summary, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	var help string
	switch {
	case m.filterMode:
		help = "enter: apply  esc: cancel  (empty clears)"
	case m.activeTab == tabHistory:
		help = "Nav: left/right  Scroll: up/down  Filter: /  Quit: q"
	case m.activeTab == tabSettings:
		help = "Nav: left/right  Select: up/down  Change: -/= enter  Defaults: D  Reset progress: R  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	if m.notice != "" {
		return m.renderHelp() + "\n" + cardTitleStyle.Render(m.notice)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabHistory:
		if m.filterMode {
			form := m.filterInput.View()
			if m.filterError != "" {
				form += "\n" + errorStyle.Render(m.filterError)
			}
			return fitLines(form, m.width, height)
		}
		if m.historyLayout.rowCount == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.history.View()), m.width, height)
	case tabSettings:
		return fitLines(m.renderSettings(), m.width, height)
	default:
		return fitLines(m.overview.View(), m.width, height)
	}
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.progress, m.challenge, width))
}

func renderOverview(p model.UserProgress, wc model.WeeklyChallenge, width int) string {
	sections := []string{
		renderSummaryCards(p, width),
		renderAchievements(p),
		renderChallenge(wc),
	}
	var buf bytes.Buffer
	if err := stats.RenderGameTable(&buf, p.Sessions); err != nil {
		sections = append(sections, fmt.Sprintf("Failed to render games: %v", err))
	} else {
		sections = append(sections, strings.TrimRight(buf.String(), "\n"))
	}
	if series := stats.ScoreSeries(p.Sessions, ""); len(series) > 0 {
		smooth := stats.MovingAverage(series, 5)
		sections = append(sections,
			headerStyle.Render("Score trend")+"\n"+stats.Sparkline(tail(series, width-2))+"\n"+
				headerStyle.Render("Moving average (5)")+"\n"+stats.Sparkline(tail(smooth, width-2)))
	}
	return strings.Join(sections, "\n\n")
}

func renderSummaryCards(p model.UserProgress, width int) string {
	best := 0
	for _, s := range p.Sessions {
		best = max(best, s.Score)
	}
	cards := []string{
		metricCard("Points", fmt.Sprintf("%d", p.TotalPoints)),
		metricCard("Level", fmt.Sprintf("%d (%d/%d)", p.Level, progress.LevelProgress(p.TotalPoints), progress.PointsPerLevel)),
		metricCard("Games", fmt.Sprintf("%d", p.GamesPlayed)),
		metricCard("Streak", fmt.Sprintf("%d", p.Streak)),
		metricCard("Best Score", fmt.Sprintf("%d", best)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderAchievements(p model.UserProgress) string {
	lines := []string{headerStyle.Render("Achievements")}
	for _, a := range model.Achievements {
		mark := "[ ]"
		if p.HasAchievement(a.Key) {
			mark = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", mark, a.Name, cardTitleStyle.Render(a.Description)))
	}
	return strings.Join(lines, "\n")
}

func renderChallenge(wc model.WeeklyChallenge) string {
	if wc.Title == "" {
		return headerStyle.Render("Weekly Challenge") + "\nNone selected."
	}
	status := "open"
	if wc.Completed {
		status = "completed"
		if wc.CompletedAt != nil {
			status += " " + wc.CompletedAt.Local().Format("2006-01-02")
		}
	}
	return fmt.Sprintf("%s\n%s (%s)\n%s",
		headerStyle.Render("Weekly Challenge"), wc.Title, status, cardTitleStyle.Render(wc.Description))
}

func (m *Model) renderSettings() string {
	if m.deps.Settings == nil {
		return "Settings unavailable."
	}
	g := m.deps.Settings.Current()
	rows := []string{
		fmt.Sprintf("Difficulty        %s", model.DifficultyLabel(g.Difficulty)),
		fmt.Sprintf("Sound             %s", onOff(g.SoundEnabled)),
		fmt.Sprintf("Vibration         %s", onOff(g.VibrationEnabled)),
		fmt.Sprintf("Session duration  %d min", g.SessionDuration),
	}
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == m.settingIndex {
			lines = append(lines, selectedStyle.Render("> "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirmModal() string {
	body := []string{
		cardValueStyle.Render("Reset progress?"),
		"",
		fmt.Sprintf("This deletes %d points, %d sessions and all achievements.", m.progress.TotalPoints, len(m.progress.Sessions)),
		"",
		headerStyle.Render("y: reset / n or esc: cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func (m *Model) applyHistory(force bool) {
	var sessions []model.GameSession
	if m.deps.Progress != nil {
		sessions = m.deps.Progress.Recent(0)
	}
	rows := historyRows(sessions, m.gameFilter)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	if !force && m.historyLayout.rowCount == len(rows) {
		return
	}
	m.history.SetRows(rows)
	m.history.GotoTop()
	m.historyLayout.rowCount = len(rows)
	m.setHistorySize(width, bodyHeight)
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Game", Width: 20},
		{Title: "Score", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Time", Width: 6},
	}
}

// historyRows renders sessions, already newest first, optionally keeping one game.
func historyRows(sessions []model.GameSession, id model.GameID) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		if id != "" && s.GameID != id {
			continue
		}
		rows = append(rows, table.Row{
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			s.GameID.Title(),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.0f%%", s.Accuracy),
			stats.FormatDuration(s.Duration),
		})
	}
	return rows
}

func buildHistoryTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(historyColumns()),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func (m *Model) setHistorySize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.historyLayout.width == width && m.historyLayout.height == viewportHeight {
		return
	}
	m.historyLayout.width = width
	m.historyLayout.height = viewportHeight
	m.history.SetWidth(width)
	m.history.SetHeight(viewportHeight)
	viewportHeight = m.adjustHistoryHeight(height)
	if m.historyLayout.height != viewportHeight {
		m.historyLayout.height = viewportHeight
		m.history.SetHeight(viewportHeight)
	}
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustHistoryHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.history.Height()
	viewHeight := lipgloss.Height(m.history.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.history.SetHeight(height)
	viewHeight = lipgloss.Height(m.history.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
