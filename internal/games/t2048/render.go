package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
)

// boardExtent returns the drawn board width and height in characters.
func boardExtent(size int) (w, h int) {
	return size*cellWidth + 1, size*cellHeight + 1
}

// TileColor picks a display color for a tile value.
func TileColor(value int) core.Color {
	switch {
	case value <= 0:
		return core.ColorDefault
	case value <= 4:
		return core.ColorWhite
	case value <= 16:
		return core.ColorYellow
	case value <= 64:
		return core.ColorOrange
	case value <= 256:
		return core.ColorRed
	case value <= 1024:
		return core.ColorMagenta
	case value <= 2048:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightMagenta
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	size := g.session.Config().Size
	boardW, boardH := boardExtent(size)
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	drawGrid(dst, size, boardX, boardY)

	if g.animating && g.animationPhase == PhaseSlide {
		g.renderSlide(dst, boardX, boardY)
	} else {
		g.renderTiles(dst, boardX, boardY)
	}

	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws score, move count and undo availability.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	st := g.session.State()

	title := "2048"
	dst.DrawText(boardX+(boardW-len(title))/2, 0, title)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", st.Score))

	info := fmt.Sprintf("Max: %d", st.Board.MaxTile())
	dst.DrawText(max(boardX, boardX+boardW-len(info)), 1, info)

	status := fmt.Sprintf("Moves: %d  Goal: %d", st.MoveCount, g.session.Config().WinTile)
	if g.session.CanUndo() {
		status += "  [U]ndo"
	}
	dst.DrawText(boardX+(boardW-len(status))/2, 2, status)
}

// drawGrid draws the cell borders.
func drawGrid(dst *core.Screen, size, boardX, boardY int) {
	for y := range size + 1 {
		for x := range size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == size:
				corner = '┐'
			case y == size && x == 0:
				corner = '└'
			case y == size && x == size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < size {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < size {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}
}

// drawTile writes a value centered in the cell at (row, col).
func drawTile(dst *core.Screen, boardX, boardY, row, col int, text string, color core.Color) {
	cellX := boardX + col*cellWidth + 1
	cellY := boardY + row*cellHeight + 1
	padLeft := max((cellWidth-1-len(text))/2, 0)
	dst.DrawTextColored(cellX+padLeft, cellY, text, color)
}

// renderTiles draws the current board, with pop effects while they run.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	board := g.session.State().Board
	popping := make(map[Position]TileAnimation, len(g.animations))
	if g.animationPhase == PhasePop {
		for _, a := range g.animations {
			popping[a.To] = a
		}
	}

	for idx := range board.Len() {
		val := board.At(idx)
		if val == 0 {
			continue
		}
		pos := board.PositionOf(idx)
		text := strconv.Itoa(val)
		color := TileColor(val)

		if a, ok := popping[pos]; ok && a.IsNew && a.Progress < 0.5 {
			text = "·"
		}
		if g.animationPhase == PhasePop && g.highlight.Has(idx) {
			color = core.ColorBrightRed
		}
		drawTile(dst, boardX, boardY, pos.Row, pos.Col, text, color)
	}
}

// renderSlide draws tiles that stay put from the pre-move board, then the
// moving tiles at their interpolated positions.
func (g *Game) renderSlide(dst *core.Screen, boardX, boardY int) {
	moving := make(map[Position]bool, len(g.animations))
	for _, a := range g.animations {
		moving[a.From] = true
	}

	for idx := range g.before.Len() {
		val := g.before.At(idx)
		pos := g.before.PositionOf(idx)
		if val == 0 || moving[pos] {
			continue
		}
		drawTile(dst, boardX, boardY, pos.Row, pos.Col, strconv.Itoa(val), TileColor(val))
	}

	for i := range g.animations {
		a := &g.animations[i]
		row, col := a.interpolatePosition()
		drawTile(dst, boardX, boardY, int(math.Round(row)), int(math.Round(col)), strconv.Itoa(a.Value), TileColor(a.Value))
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	st := g.session.State()
	center := core.Rect{X: boardX, Y: boardY, W: boardW, H: boardH}

	switch {
	case g.paused:
		drawOverlay(dst, center, "PAUSED", "Press P to resume")
	case st.GameOver:
		lines := []string{"GAME OVER", fmt.Sprintf("Max tile: %d", st.Board.MaxTile()), "Press R to restart"}
		if g.session.CanUndo() {
			lines = append(lines, "or U to undo")
		}
		drawOverlay(dst, center, lines...)
	case st.Won && !g.session.Config().AllowContinueAfterWin:
		drawOverlay(dst, center, "YOU WIN!", fmt.Sprintf("Score: %d", st.Score), "Press R to restart")
	}
}

// drawOverlay draws a boxed message centered on area.
func drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := area.Centered(maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(box.X+(box.W-len(line))/2, box.Y+1+i, line)
	}
}
