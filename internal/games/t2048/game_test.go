package t2048

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func newTestGame(t *testing.T, grid [][]int) *Game {
	t.Helper()
	g := NewGame(resumeBoard(t, grid, DefaultConfig(), &scriptedSource{}))
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})
	return g
}

func rowOfTwos() [][]int {
	return [][]int{
		{2, 2, 2, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
}

func render(g *Game) string {
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	return screen.String()
}

func TestGameStepMove(t *testing.T) {
	g := newTestGame(t, rowOfTwos())

	res := g.Step(core.NewInputFrame(core.ActionLeft))
	if !res.Moved {
		t.Fatal("Step(Left) should move")
	}
	if res.Status.Score != 8 || res.Status.Moves != 1 {
		t.Errorf("status = %+v, want score 8 after 1 move", res.Status)
	}
	if !g.Animating() {
		t.Error("a move should start an animation")
	}
	if got := g.Analysis().Merged.Len(); got != 2 {
		t.Errorf("Analysis().Merged has %d cells, want 2", got)
	}
	if out := render(g); !strings.Contains(out, "Score: 8") {
		t.Errorf("mid-animation frame is missing the score:\n%s", out)
	}

	for i := 0; i < 100 && g.Animating(); i++ {
		g.Step(core.InputFrame{})
	}
	if g.Animating() {
		t.Fatal("animation never finished")
	}

	out := render(g)
	for _, want := range []string{"2048", "Score: 8", "Moves: 1", "[U]ndo"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame is missing %q:\n%s", want, out)
		}
	}

	if res := g.Step(core.NewInputFrame(core.ActionLeft)); res.Moved {
		t.Error("Step(Left) on a packed row should not move")
	}
}

func TestGameUndoRedoRestart(t *testing.T) {
	g := newTestGame(t, rowOfTwos())
	g.Step(core.NewInputFrame(core.ActionLeft))

	res := g.Step(core.NewInputFrame(core.ActionUndo))
	if res.Status.Moves != 0 || res.Status.Score != 0 {
		t.Errorf("after undo status = %+v", res.Status)
	}
	if g.Animating() {
		t.Error("undo should cancel the animation")
	}

	res = g.Step(core.NewInputFrame(core.ActionRedo))
	if res.Status.Moves != 1 || res.Status.Score != 8 {
		t.Errorf("after redo status = %+v", res.Status)
	}

	res = g.Step(core.NewInputFrame(core.ActionRestart))
	if res.Status.Moves != 0 || res.Status.Score != 0 {
		t.Errorf("after restart status = %+v", res.Status)
	}
	if got := g.Session().State().Board.CountEmptyCells(); got != 14 {
		t.Errorf("restart left %d empty cells, want 14", got)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, rowOfTwos())

	if res := g.Step(core.NewInputFrame(core.ActionPause)); !res.Status.Paused {
		t.Fatal("Step(Pause) should pause")
	}
	if res := g.Step(core.NewInputFrame(core.ActionLeft)); res.Moved {
		t.Error("moves must be ignored while paused")
	}
	if out := render(g); !strings.Contains(out, "PAUSED") {
		t.Errorf("paused frame missing overlay:\n%s", out)
	}

	g.Step(core.NewInputFrame(core.ActionPause))
	if res := g.Step(core.NewInputFrame(core.ActionLeft)); !res.Moved {
		t.Error("moves should resume after unpausing")
	}
}

func TestGameTooSmall(t *testing.T) {
	g := newTestGame(t, rowOfTwos())
	g.Resize(20, 8)

	res := g.Step(core.NewInputFrame(core.ActionLeft))
	if res.Moved || !res.Status.Paused {
		t.Errorf("tiny screen step = %+v, want paused without move", res)
	}

	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("missing resize hint:\n%s", screen.String())
	}

	g.Resize(80, 24)
	if res := g.Step(core.NewInputFrame(core.ActionLeft)); !res.Moved {
		t.Error("game should resume once the screen is large enough")
	}
}

func TestGameOverOverlay(t *testing.T) {
	g := NewGame(resumeBoard(t, [][]int{
		{2, 4},
		{4, 2},
	}, DefaultConfig(), &scriptedSource{}))
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	res := g.Step(core.NewInputFrame(core.ActionUp))
	if res.Moved || !res.Status.GameOver {
		t.Errorf("status = %+v, want game over", res.Status)
	}
	if out := render(g); !strings.Contains(out, "GAME OVER") {
		t.Errorf("missing game over overlay:\n%s", out)
	}
}

func TestTileColor(t *testing.T) {
	tests := []struct {
		value int
		want  core.Color
	}{
		{0, core.ColorDefault},
		{2, core.ColorWhite},
		{16, core.ColorYellow},
		{64, core.ColorOrange},
		{256, core.ColorRed},
		{1024, core.ColorMagenta},
		{2048, core.ColorBrightYellow},
		{8192, core.ColorBrightMagenta},
	}

	for _, tt := range tests {
		if got := TileColor(tt.value); got != tt.want {
			t.Errorf("TileColor(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
