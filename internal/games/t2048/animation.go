package t2048

// Animation constants
const (
	slideAnimationDuration = 8 // ~133ms at 60fps
	popAnimationDuration   = 6 // ~100ms at 60fps
)

// TileAnimation represents an animated tile.
type TileAnimation struct {
	Value    int     // Tile value
	From     Position
	To       Position
	Progress float64 // 0.0 → 1.0
	Merged   bool    // Slides into a merge
	IsNew    bool    // Freshly spawned (pop effect)
}

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// PendingTile is a spawned tile waiting for the slide to finish.
type PendingTile struct {
	Pos   Position
	Value int
}

// startSlideAnimation builds slide animations from a move analysis and queues
// the spawned tiles for the pop phase.
func (g *Game) startSlideAnimation(a *MoveAnalysis, after Board) {
	g.animations = g.animations[:0]
	for _, m := range a.Movements {
		g.animations = append(g.animations, TileAnimation{
			Value:  m.Value,
			From:   m.From,
			To:     m.To,
			Merged: m.Merging,
		})
	}

	g.pendingSpawns = g.pendingSpawns[:0]
	for _, idx := range a.Spawned.Sorted() {
		g.pendingSpawns = append(g.pendingSpawns, PendingTile{Pos: after.PositionOf(idx), Value: after.At(idx)})
	}
	g.highlight = resetSet(g.highlight)
	for idx := range a.Merged {
		g.highlight.Add(idx)
	}

	if len(g.animations) == 0 {
		g.startPopAnimation()
		return
	}
	g.animating = true
	g.animationPhase = PhaseSlide
	g.animationTicks = 0
}

// startPopAnimation animates the pending spawns, if any.
func (g *Game) startPopAnimation() {
	g.animations = g.animations[:0]
	for _, p := range g.pendingSpawns {
		g.animations = append(g.animations, TileAnimation{
			Value: p.Value,
			From:  p.Pos,
			To:    p.Pos,
			IsNew: true,
		})
	}
	g.pendingSpawns = g.pendingSpawns[:0]

	if len(g.animations) == 0 && g.highlight.Len() == 0 {
		g.stopAnimation()
		return
	}
	g.animating = true
	g.animationPhase = PhasePop
	g.animationTicks = 0
}

// updateAnimation advances the animation state.
// Returns true if animation is still in progress.
func (g *Game) updateAnimation() bool {
	if !g.animating {
		return false
	}

	g.animationTicks++

	var duration int
	switch g.animationPhase {
	case PhaseSlide:
		duration = slideAnimationDuration
	case PhasePop:
		duration = popAnimationDuration
	default:
		g.stopAnimation()
		return false
	}

	progress := min(float64(g.animationTicks)/float64(duration), 1.0)
	for i := range g.animations {
		g.animations[i].Progress = progress
	}

	if g.animationTicks >= duration {
		g.finishAnimation()
		return g.animating
	}
	return true
}

// finishAnimation completes the current animation phase.
func (g *Game) finishAnimation() {
	if g.animationPhase == PhaseSlide {
		g.startPopAnimation()
		return
	}
	g.stopAnimation()
}

// stopAnimation drops all animation state.
func (g *Game) stopAnimation() {
	g.animating = false
	g.animationPhase = PhaseNone
	g.animationTicks = 0
	g.animations = g.animations[:0]
	g.pendingSpawns = g.pendingSpawns[:0]
	clear(g.highlight)
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolatePosition returns the current (row, col) during a slide.
func (a *TileAnimation) interpolatePosition() (row, col float64) {
	t := easeOutQuad(a.Progress)
	row = float64(a.From.Row) + float64(a.To.Row-a.From.Row)*t
	col = float64(a.From.Col) + float64(a.To.Col-a.From.Col)*t
	return row, col
}
