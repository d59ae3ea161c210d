package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/gotris/internal/game"
)

const (
	previewRows = 2
	previewCols = 4
)

var (
	// colors is indexed by color tag; 0 is empty and 8 the game-over fill.
	colors = []string{
		"0",
		"196",
		"46",
		"226",
		"21",
		"201",
		"51",
		"208",
		"245",
	}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	ghostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func colorOf(tag int) string {
	if tag >= 0 && tag < len(colors) {
		return colors[tag]
	}
	return "248"
}

func block(tag int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorOf(tag))).
		Render("██")
}

// RenderBoard draws the well with row 0 at the bottom. While anim is running
// it replaces the snapshot's cells.
func RenderBoard(s game.Snapshot, anim *clearAnim) string {
	var sb strings.Builder

	for row := s.Rows - 1; row >= 0; row-- {
		for col := 0; col < s.Cols; col++ {
			if anim != nil {
				if tag := anim.TagAt(row, col); tag != 0 {
					sb.WriteString(block(tag))
				} else {
					sb.WriteString("  ")
				}
				continue
			}

			tag := s.TagAt(row, col)
			switch {
			case tag != 0:
				sb.WriteString(block(tag))
			case s.GhostAt(row, col):
				sb.WriteString(ghostStyle.Render("[]"))
			default:
				sb.WriteString("  ")
			}
		}
		if row > 0 {
			sb.WriteString("\n")
		}
	}

	return boardStyle.Render(sb.String())
}

// RenderNext draws the preview kind in a 2x4 box, centered by shape width.
func RenderNext(k game.Kind) string {
	shape := game.ShapeOf(k)
	var cells [previewRows][previewCols]bool
	for _, o := range shape.Offsets {
		r := 1 + o.DRow
		c := (previewCols-shape.Width)/2 + o.DCol
		cells[r][c] = true
	}

	var sb strings.Builder
	for r := previewRows - 1; r >= 0; r-- {
		for c := 0; c < previewCols; c++ {
			if cells[r][c] {
				sb.WriteString(block(shape.Color))
			} else {
				sb.WriteString("  ")
			}
		}
		if r > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func RenderInfo(s game.Snapshot, status string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("GOTRIS") + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", s.Ledger.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Top:   %d", s.Ledger.TopScore)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Rows:  %d", s.Ledger.Clears)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Speed: %d", s.Ledger.Speed)) + "\n\n")

	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	if s.State != game.StateIdle || s.HasPiece {
		sb.WriteString(RenderNext(s.Next) + "\n")
	} else {
		sb.WriteString("\n\n")
	}

	if s.State == game.StatePaused {
		sb.WriteString("\n" + statusStyle.Render("PAUSED"))
	}
	if status != "" {
		sb.WriteString("\n" + statusStyle.Render(status))
	}

	return sb.String()
}

// RenderIdle is shown between rounds.
func RenderIdle(hadRound bool, lastScore int) string {
	if !hadRound {
		return infoStyle.Render("Press ENTER to start")
	}
	return gameOverStyle.Render(fmt.Sprintf("GAME OVER\nScore: %d", lastScore)) +
		"\n" + infoStyle.Render("Press ENTER to play again")
}

func RenderControls(k keyMap) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("CONTROLS") + "\n")
	for _, b := range k.help() {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("%-8s %s", b.Help().Key, b.Help().Desc)) + "\n")
	}
	return sb.String()
}
