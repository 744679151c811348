// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/focusplay/internal/auth"
	"github.com/verte-zerg/focusplay/internal/challenge"
	"github.com/verte-zerg/focusplay/internal/game"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/session"
)

const (
	tickInterval      = time.Second
	colorStepInterval = 800 * time.Millisecond
	colorLastHold     = 600 * time.Millisecond
	nextRoundDelay    = time.Second
	targetMoveEvery   = 3 * time.Second
	authPollInterval  = 2 * time.Second
	pointerStep       = 5
)

type screen int

const (
	screenSignIn screen = iota
	screenMenu
	screenGame
	screenResult
)

// Deps wires the game UI to the domain stores.
type Deps struct {
	Controller  *session.Controller
	Progress    *progress.Store
	Challenges  *challenge.Selector
	Gate        *auth.Gate
	ProviderURL string
}

type tickMsg struct{ gen int }

type seqStepMsg struct {
	gen   int
	index int
}

type seqDoneMsg struct{ gen int }

type targetMoveMsg struct{ gen int }

type authPollMsg struct{}

// Model implements the Bubble Tea game UI.
type Model struct {
	deps   Deps
	keys   keyMap
	help   help.Model
	screen screen
	cursor int

	width  int
	height int

	signedIn  bool
	challenge model.WeeklyChallenge

	// gen invalidates timers of earlier runs.
	gen       int
	playback  int
	scheduled int
	last      *session.Result
	errMsg    string
}

// NewModel constructs a game TUI model.
func NewModel(deps Deps) *Model {
	m := &Model{
		deps:     deps,
		keys:     defaultKeyMap(),
		help:     help.New(),
		screen:   screenMenu,
		playback: -1,
	}
	if deps.Gate != nil {
		deps.Gate.Subscribe(func(present bool) {
			m.signedIn = present
		})
		if _, err := deps.Gate.Check(); err != nil {
			m.errMsg = err.Error()
		}
		if !m.signedIn {
			m.screen = screenSignIn
		}
	} else {
		m.signedIn = true
	}
	m.refreshChallenge()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.screen == screenSignIn {
		return pollAuth()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case authPollMsg:
		return m.handleAuthPoll()
	case tickMsg:
		return m.handleTick(msg)
	case seqStepMsg:
		return m.handleSeqStep(msg)
	case seqDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.deps.Controller.Paused() {
			gen := m.gen
			return m, tea.Tick(colorLastHold, func(time.Time) tea.Msg {
				return seqDoneMsg{gen: gen}
			})
		}
		m.playback = -1
		m.deps.Controller.Advance(game.SequenceShown)
		return m, nil
	case targetMoveMsg:
		if msg.gen != m.gen || !m.deps.Controller.Playing() {
			return m, nil
		}
		m.deps.Controller.Advance(game.TargetMove)
		return m, moveTarget(m.gen)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.screen {
		case screenSignIn:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case screenMenu:
			return m.updateMenu(msg)
		case screenGame:
			return m.updateGame(msg)
		case screenResult:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			if key.Matches(msg, m.keys.Select, m.keys.Back) {
				m.screen = screenMenu
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) handleAuthPoll() (tea.Model, tea.Cmd) {
	if m.deps.Gate == nil {
		return m, nil
	}
	if _, err := m.deps.Gate.Check(); err != nil {
		m.errMsg = err.Error()
	}
	if !m.signedIn {
		if m.screen == screenMenu {
			m.screen = screenSignIn
		}
		return m, pollAuth()
	}
	if m.screen == screenSignIn {
		m.screen = screenMenu
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(model.AllGames)) % len(model.AllGames)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(model.AllGames)
	case key.Matches(msg, m.keys.Select):
		return m.startGame(model.AllGames[m.cursor])
	case key.Matches(msg, m.keys.Digit):
		idx := digit(msg) - 1
		if idx >= 0 && idx < len(model.AllGames) {
			m.cursor = idx
			return m.startGame(model.AllGames[idx])
		}
	}
	return m, nil
}

func (m *Model) startGame(id model.GameID) (tea.Model, tea.Cmd) {
	if m.deps.Gate != nil {
		if err := m.deps.Gate.Require(); err != nil {
			m.screen = screenSignIn
			return m, pollAuth()
		}
	}
	if err := m.deps.Controller.Start(id); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.gen++
	m.errMsg = ""
	m.last = nil
	m.playback = -1
	m.scheduled = 1
	m.screen = screenGame
	cmds := []tea.Cmd{tick(m.gen)}
	switch id {
	case model.GameColorMemory:
		cmds = append(cmds, playSequence(m.gen, 0))
	case model.GameSustainedFocus:
		cmds = append(cmds, moveTarget(m.gen))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.deps.Controller
	switch {
	case key.Matches(msg, m.keys.Back):
		ctrl.Abort()
		m.gen++
		m.screen = screenMenu
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		ctrl.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.Finish):
		res, err := ctrl.End(context.Background(), ctrl.Score())
		return m, m.finish(res, err)
	}

	ev, ok := m.eventFor(msg)
	if !ok {
		return m, nil
	}
	_, res, err := ctrl.RecordInput(context.Background(), ev)
	if res != nil || err != nil {
		return m, m.finish(res, err)
	}
	if cm, ok := ctrl.Game().(*game.ColorMemory); ok && cm.Showing() && len(cm.Sequence()) != m.scheduled {
		m.scheduled = len(cm.Sequence())
		gen := m.gen
		return m, tea.Tick(nextRoundDelay, func(time.Time) tea.Msg {
			return seqStepMsg{gen: gen, index: 0}
		})
	}
	return m, nil
}

// eventFor maps a key press to the input of the active game.
func (m *Model) eventFor(msg tea.KeyMsg) (game.Event, bool) {
	switch m.deps.Controller.Active() {
	case model.GameColorMemory:
		if idx := digit(msg) - 1; idx >= 0 && idx < len(game.Colors) {
			return game.ColorPressed{Color: game.Colors[idx]}, true
		}
	case model.GameSelectiveAttention:
		if idx := digit(msg) - 1; idx >= 0 && idx < game.BoardSize {
			return game.ShapePressed{Index: idx}, true
		}
	case model.GameSustainedFocus:
		sf, ok := m.deps.Controller.Game().(*game.SustainedFocus)
		if !ok {
			return nil, false
		}
		dx, dy := 0.0, 0.0
		switch {
		case key.Matches(msg, m.keys.Up):
			dy = -pointerStep
		case key.Matches(msg, m.keys.Down):
			dy = pointerStep
		case key.Matches(msg, m.keys.Left):
			dx = -pointerStep
		case key.Matches(msg, m.keys.Right):
			dx = pointerStep
		default:
			return nil, false
		}
		p := sf.Pointer()
		return game.PointerMoved{X: clampPercent(p.X + dx), Y: clampPercent(p.Y + dy)}, true
	case model.GamePuzzle:
		if d := digit(msg); d >= 1 && d <= game.Blank {
			return game.TilePressed{Tile: d - 1}, true
		}
	case model.GameWeeklyChallenge:
		if key.Matches(msg, m.keys.Select) {
			return game.ChallengeCompleted{}, true
		}
	}
	return nil, false
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.screen != screenGame {
		return m, nil
	}
	res, err := m.deps.Controller.Tick(context.Background())
	if res != nil || err != nil {
		return m, m.finish(res, err)
	}
	return m, tick(m.gen)
}

func (m *Model) handleSeqStep(msg seqStepMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	cm, ok := m.deps.Controller.Game().(*game.ColorMemory)
	if !ok {
		return m, nil
	}
	m.playback = msg.index
	if msg.index < len(cm.Sequence())-1 {
		return m, playSequence(m.gen, msg.index+1)
	}
	gen := m.gen
	return m, tea.Tick(colorLastHold, func(time.Time) tea.Msg {
		return seqDoneMsg{gen: gen}
	})
}

// finish moves to the result screen after a session ended.
func (m *Model) finish(res *session.Result, err error) tea.Cmd {
	m.gen++
	m.playback = -1
	if err != nil {
		m.errMsg = err.Error()
		logErrf("failed to record session: %v\n", err)
	}
	if res == nil {
		m.screen = screenMenu
		return nil
	}
	m.last = res
	if res.Challenge != nil {
		m.challenge = *res.Challenge
	}
	m.screen = screenResult
	return nil
}

func (m *Model) refreshChallenge() {
	if m.deps.Challenges == nil {
		return
	}
	wc, err := m.deps.Challenges.Current(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.challenge = wc
}

func tick(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func playSequence(gen, index int) tea.Cmd {
	delay := colorStepInterval
	if index == 0 {
		delay = 0
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return seqStepMsg{gen: gen, index: index}
	})
}

func moveTarget(gen int) tea.Cmd {
	return tea.Tick(targetMoveEvery, func(time.Time) tea.Msg {
		return targetMoveMsg{gen: gen}
	})
}

func pollAuth() tea.Cmd {
	return tea.Tick(authPollInterval, func(time.Time) tea.Msg {
		return authPollMsg{}
	})
}

func digit(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return -1
	}
	return int(s[0] - '0')
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
