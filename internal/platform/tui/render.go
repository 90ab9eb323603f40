package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/colorfall/internal/board"
)

// Board layout constants. Mouse hit-testing relies on them.
const (
	boardLeft = 2 // Columns before the first cell
	boardTop  = 2 // Lines before the first board row (HUD + blank)
	cellWidth = 3 // Columns per cell
)

const (
	tileGlyph   = "■"
	fadeGlyph   = "□"
	emptyGlyph  = "·"
	blinkFrames = 3 // Frames per blink phase during removal
)

// displayCell is a cell as drawn in the current frame.
type displayCell struct {
	cell   board.Cell
	fading bool
}

// frameCells lays out the grid for the current frame, moving falling cells
// to their in-flight rows.
func (v *view) frameCells() [][]displayCell {
	n := v.grid.Dimension()
	out := make([][]displayCell, n)
	for i := range out {
		out[i] = make([]displayCell, n)
	}
	for r, row := range v.grid.Rows() {
		for c, cell := range row {
			if !cell.Filled {
				continue
			}
			out[v.displayRow(r, c)][c] = displayCell{cell: cell, fading: v.removing(r, c)}
		}
	}
	return out
}

// renderBoard draws the grid with the cursor highlighted.
func renderBoard(v *view, theme Theme, cursor board.Pos, showCursor bool) string {
	var sb strings.Builder
	margin := strings.Repeat(" ", boardLeft)
	blinkOff := (v.frame/blinkFrames)%2 == 1

	for r, row := range v.frameCells() {
		if r > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(margin)
		for c, dc := range row {
			glyph := theme.EmptyCell.Render(emptyGlyph)
			if dc.cell.Filled {
				glyph = theme.Tile(dc.cell.Color).Render(tileGlyph)
				if dc.fading && blinkOff {
					glyph = theme.Fading.Render(fadeGlyph)
				}
			}

			if showCursor && cursor.Row == r && cursor.Col == c {
				sb.WriteString(theme.Cursor.Render("["))
				sb.WriteString(glyph)
				sb.WriteString(theme.Cursor.Render("]"))
			} else {
				sb.WriteString(" ")
				sb.WriteString(glyph)
				sb.WriteString(" ")
			}
		}
	}
	return sb.String()
}

// renderHUD draws the title line with move count and timer.
func renderHUD(theme Theme, n, moves int, elapsed time.Duration) string {
	sep := theme.HUDSeparator.Render(" │ ")
	parts := []string{
		theme.HUDTitle.Render("COLORFALL"),
		theme.HUDValue.Render(fmt.Sprintf("%dx%d", n, n)),
		theme.HUDValue.Render(fmt.Sprintf("Moves: %d", moves)),
		theme.HUDValue.Render("Time: " + formatElapsed(elapsed)),
	}
	return strings.Repeat(" ", boardLeft) + strings.Join(parts, sep)
}

// renderStatus describes the transition in flight, if any.
func renderStatus(v *view, theme Theme) string {
	switch {
	case v.rotation != nil:
		arrow := "↻"
		if v.rotation.dir == board.Left {
			arrow = "↺"
		}
		return theme.HUDControls.Render(arrow + " rotating " + v.rotation.dir.String())
	case v.locked:
		return theme.HUDControls.Render("…")
	}
	return ""
}

// renderCompleted draws the completion overlay.
func renderCompleted(v *view, theme Theme) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.OverlayTitle.Render("BOARD CLEARED"),
		"",
		theme.OverlayText.Render(fmt.Sprintf("%d moves in %s", v.moves, formatElapsed(v.elapsed))),
		theme.HUDControls.Render("r: new board   q: quit"),
	)
	return theme.OverlayBorder.Render(body)
}

// formatElapsed renders a duration as m:ss.t.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := d % time.Minute
	return fmt.Sprintf("%d:%04.1f", minutes, seconds.Seconds())
}
