package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hersh/gotris/internal/game"
)

const (
	animFrame = 30 * time.Millisecond
	fillTag   = 8
)

// clearAnim is the game-over cue: the final well fills row by row from the
// bottom, then empties row by row from the top.
type clearAnim struct {
	grid  *game.Grid
	frame int
}

func newClearAnim(rows, cols int, cells []int) *clearAnim {
	return &clearAnim{grid: game.GridFromCells(rows, cols, cells)}
}

// Step advances one frame and reports whether the animation is still running.
func (a *clearAnim) Step() bool {
	if a.Done() {
		return false
	}
	rows := a.grid.Rows()
	if a.frame < rows {
		a.grid.FillRow(a.frame, fillTag)
	} else {
		a.grid.CompactRow(2*rows - 1 - a.frame)
	}
	a.frame++
	return !a.Done()
}

func (a *clearAnim) Done() bool { return a.frame >= 2*a.grid.Rows() }

func (a *clearAnim) TagAt(row, col int) int { return a.grid.Tag(row, col) }

type animMsg struct{}

func animCmd() tea.Cmd {
	return tea.Tick(animFrame, func(time.Time) tea.Msg { return animMsg{} })
}
