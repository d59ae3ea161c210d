package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/netclient"
	"github.com/hersh/gotris/internal/protocol"
	"github.com/hersh/gotris/internal/store"
)

// DropDelay is how long a hard-dropped piece rests before it locks.
const DropDelay = 160 * time.Millisecond

// --- Custom tea.Msg types ---

// GameTickMsg applies gravity. Ticks from an older generation are stale and
// ignored.
type GameTickMsg struct{ gen int }

// DropFinishMsg locks the piece left by a hard drop. Like GameTickMsg it is
// ignored unless it belongs to the latest drop.
type DropFinishMsg struct{ gen int }

// Commander sends commands to a remote round.
type Commander interface {
	SendCommand(cmd protocol.Command, key protocol.KeyPhase)
}

// --- Model ---

type Model struct {
	keys   keyMap
	width  int
	height int

	// Local play
	round  *game.Round
	scores store.TopScores

	// Remote play
	remote       Commander
	sessionID    uint64
	disconnected bool
	err          error

	snap     game.Snapshot
	anim     *clearAnim
	tickGen  int
	dropGen  int
	interval time.Duration
	running  bool

	status    string
	lastScore int
	hadRound  bool
}

// NewLocalModel plays round in-process. The top score is loaded from scores
// (if any) and written back when a round ends or the program quits.
func NewLocalModel(round *game.Round, scores store.TopScores) Model {
	if scores != nil {
		round.SetTopScore(store.LoadOrZero(scores))
	}
	return Model{
		keys:   defaultKeyMap(),
		round:  round,
		scores: scores,
		snap:   round.Snapshot(),
	}
}

// NewRemoteModel mirrors a round hosted by a server. Snapshots and events
// arrive as netclient messages.
func NewRemoteModel(remote Commander) Model {
	return Model{
		keys:   defaultKeyMap(),
		remote: remote,
		snap: game.Snapshot{
			Rows: game.BoardRows,
			Cols: game.BoardCols,
			Grid: make([]int, game.BoardRows*game.BoardCols),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func gameTickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return GameTickMsg{gen: gen}
	})
}

func dropFinishCmd(gen int) tea.Cmd {
	return tea.Tick(DropDelay, func(time.Time) tea.Msg {
		return DropFinishMsg{gen: gen}
	})
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case GameTickMsg:
		if m.round == nil || msg.gen != m.tickGen {
			return m, nil
		}
		m.round.Tick()
		gen := m.tickGen
		cmd := m.sync()
		if m.running && m.tickGen == gen {
			cmd = tea.Batch(cmd, gameTickCmd(m.interval, m.tickGen))
		}
		return m, cmd
	case DropFinishMsg:
		if m.round == nil || msg.gen != m.dropGen {
			return m, nil
		}
		m.round.FinishDrop()
		cmd := m.sync()
		return m, cmd
	case animMsg:
		if m.anim == nil {
			return m, nil
		}
		if m.anim.Step() {
			return m, animCmd()
		}
		m.anim = nil
		return m, nil

	// Network messages
	case netclient.ConnectedMsg:
		m.sessionID = msg.SessionID
		return m, nil
	case netclient.SnapshotMsg:
		m.snap = msg.Snapshot
		return m, nil
	case netclient.EventMsg:
		return m.handleRemoteEvent(msg.Event)
	case netclient.ServerErrorMsg:
		m.status = "server: " + msg.Message
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.saveTopScore()
		return m, tea.Quit
	}
	if m.anim != nil || m.disconnected {
		return m, nil
	}
	if m.remote != nil {
		return m.handleRemoteKeys(msg)
	}
	return m.handleLocalKeys(msg)
}

func (m Model) handleLocalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.round.State() == game.StateIdle {
			m.status = ""
		}
		m.round.Toggle()
	case key.Matches(msg, m.keys.Left):
		m.round.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.round.MoveRight()
	case key.Matches(msg, m.keys.Down):
		m.round.MoveDown()
	case key.Matches(msg, m.keys.Rotate):
		m.round.Rotate()
	case key.Matches(msg, m.keys.Drop):
		if m.round.HardDrop() {
			m.dropGen++
			cmd = dropFinishCmd(m.dropGen)
		}
	case key.Matches(msg, m.keys.Speed):
		m.round.ChangeSpeed()
	default:
		return m, nil
	}
	syncCmd := m.sync()
	return m, tea.Batch(cmd, syncCmd)
}

func (m Model) handleRemoteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var c protocol.Command
	switch {
	case key.Matches(msg, m.keys.Toggle):
		c = protocol.CmdToggle
		if m.snap.State == game.StateIdle {
			m.status = ""
		}
	case key.Matches(msg, m.keys.Left):
		c = protocol.CmdMoveLeft
	case key.Matches(msg, m.keys.Right):
		c = protocol.CmdMoveRight
	case key.Matches(msg, m.keys.Down):
		c = protocol.CmdMoveDown
	case key.Matches(msg, m.keys.Rotate):
		c = protocol.CmdRotate
	case key.Matches(msg, m.keys.Drop):
		c = protocol.CmdHardDrop
	case key.Matches(msg, m.keys.Speed):
		c = protocol.CmdChangeSpeed
	default:
		return m, nil
	}
	// Terminals report no key release, so every key press is a single shot.
	m.remote.SendCommand(c, protocol.KeyTap)
	return m, nil
}

// --- Local round bookkeeping ---

// sync drains the round's events, refreshes the snapshot and restarts the
// gravity tick when the round started, resumed or changed speed.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.round.Events() {
		switch e.Kind {
		case game.EventTopScoreBeaten:
			m.status = "NEW TOP SCORE!"
		case game.EventGameOver:
			m.lastScore = e.Score
			m.hadRound = true
			m.saveTopScore()
			m.anim = newClearAnim(m.round.Grid().Rows(), m.round.Grid().Cols(), e.Grid)
			cmds = append(cmds, animCmd())
		}
	}
	m.snap = m.round.Snapshot()

	running := m.round.State() == game.StateRunning
	interval := m.round.Interval()
	switch {
	case running && (!m.running || interval != m.interval):
		m.tickGen++
		cmds = append(cmds, gameTickCmd(interval, m.tickGen))
	case !running && m.running:
		m.tickGen++
	}
	m.running = running
	m.interval = interval

	return tea.Batch(cmds...)
}

func (m *Model) saveTopScore() {
	if m.scores == nil || m.round == nil || m.round.TopScore() == 0 {
		return
	}
	store.SaveIfHigher(m.scores, m.round.TopScore())
}

func (m Model) handleRemoteEvent(ev protocol.EventPayload) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case game.EventTopScoreBeaten.String():
		m.status = "NEW TOP SCORE!"
	case game.EventGameOver.String():
		m.lastScore = ev.Score
		m.hadRound = true
		if len(ev.Grid) == m.snap.Rows*m.snap.Cols {
			m.anim = newClearAnim(m.snap.Rows, m.snap.Cols, ev.Grid)
			return m, animCmd()
		}
	}
	return m, nil
}

// --- View ---

func (m Model) View() string {
	if m.disconnected {
		msg := "Disconnected from server.\nPress Ctrl+C to exit."
		if m.err != nil {
			msg = fmt.Sprintf("Disconnected from server: %v\nPress Ctrl+C to exit.", m.err)
		}
		return m.renderCentered(msg)
	}

	board := RenderBoard(m.snap, m.anim)
	info := RenderInfo(m.snap, m.status)
	if m.snap.State == game.StateIdle && m.anim == nil {
		info += "\n\n" + RenderIdle(m.hadRound, m.lastScore)
	}

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(info)

	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(board)

	rightPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(RenderControls(m.keys))

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		centerPanel,
		rightPanel,
	)

	return m.renderCentered(mainContent)
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Snapshot returns the state currently on screen.
func (m Model) Snapshot() game.Snapshot {
	return m.snap
}
