package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// SessionConfig converts loaded YAML configuration into session rules.
func SessionConfig(cfg config.T2048Config) Config {
	return Config{
		Size:                  cfg.Board.Size,
		WinTile:               cfg.Rules.WinTile,
		AllowContinueAfterWin: cfg.Rules.AllowContinueAfterWin,
		Spawn4Prob:            cfg.Rules.Spawn4Prob,
	}
}

// Game drives a Session from per-tick input frames and keeps the animation
// state a front end needs to draw it. One Game serves one player.
type Game struct {
	session  *Session
	analysis MoveAnalysis // reused every move
	before   Board        // board the current slide animation starts from

	tick     uint64
	screenW  int
	screenH  int
	paused   bool
	tooSmall bool

	animations     []TileAnimation
	animating      bool
	animationPhase AnimationPhase
	animationTicks int
	pendingSpawns  []PendingTile
	highlight      IndexSet // merged cells flashed during the pop phase
}

// NewGame wraps a session for interactive play.
func NewGame(session *Session) *Game {
	return &Game{session: session}
}

// Session returns the underlying session.
func (g *Game) Session() *Session {
	return g.session
}

// Analysis returns the analysis of the last move. It is overwritten by the next move.
func (g *Game) Analysis() *MoveAnalysis {
	return &g.analysis
}

// Reset applies screen dimensions and drops any running animation.
// The game in progress is kept.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.tick = 0
	g.paused = false
	g.stopAnimation()
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize updates the screen dimensions.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	boardW, boardH := boardExtent(g.session.Config().Size)
	minW := boardW + 2
	minH := boardH + hudHeight + 3
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.updateAnimation()

	if g.tooSmall {
		return core.StepResult{Status: g.Status()}
	}

	// Handle pause
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{Status: g.Status()}
	}

	switch {
	case in.Has(core.ActionRestart):
		g.stopAnimation()
		g.session.NewGame()
		return core.StepResult{Status: g.Status()}
	case in.Has(core.ActionUndo):
		if g.session.Undo() {
			g.stopAnimation()
		}
		return core.StepResult{Status: g.Status()}
	case in.Has(core.ActionRedo):
		if g.session.Redo() {
			g.stopAnimation()
		}
		return core.StepResult{Status: g.Status()}
	}

	dir, ok := directionFromInput(in)
	if !ok {
		return core.StepResult{Status: g.Status()}
	}
	moved := g.processMove(dir)
	return core.StepResult{Status: g.Status(), Moved: moved}
}

func directionFromInput(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// processMove handles a move in the given direction.
func (g *Game) processMove(dir Direction) bool {
	// A new move skips whatever is still animating.
	g.stopAnimation()

	before := g.session.State().Board
	if !g.session.Move(dir) {
		return false
	}
	after := g.session.State().Board

	AnalyzeMove(before, after, dir, &g.analysis)
	g.before = before
	g.startSlideAnimation(&g.analysis, after)
	return true
}

// Status returns what the platform needs to know about the game.
func (g *Game) Status() core.Status {
	st := g.session.State()
	return core.Status{
		Score:    st.Score,
		Moves:    st.MoveCount,
		Won:      st.Won,
		GameOver: st.GameOver,
		Paused:   g.paused || g.tooSmall,
	}
}

// Animating reports whether a slide or pop animation is running.
func (g *Game) Animating() bool {
	return g.animating
}
