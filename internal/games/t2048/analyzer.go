package t2048

import "slices"

// TileMovement describes one tile travelling during a move.
type TileMovement struct {
	From    Position `json:"from"`
	To      Position `json:"to"`
	Value   int      `json:"value"`   // Value before any merge
	Merging bool     `json:"merging"` // Tile merges with another at To
}

// IndexSet is a set of flat board indices.
type IndexSet map[int]struct{}

// Add inserts idx.
func (s IndexSet) Add(idx int) {
	s[idx] = struct{}{}
}

// Has reports whether idx is present.
func (s IndexSet) Has(idx int) bool {
	_, ok := s[idx]
	return ok
}

// Len returns the number of indices.
func (s IndexSet) Len() int {
	return len(s)
}

// Sorted returns the indices in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// MoveAnalysis is the animation metadata for one move.
//
// AnalyzeMove clears and refills it on every call, so a caller reusing one
// value across calls must copy out anything it needs to keep.
type MoveAnalysis struct {
	Movements []TileMovement
	Spawned   IndexSet // Cells holding a freshly spawned tile
	Merged    IndexSet // Cells holding the result of a merge
	MovedTo   IndexSet // Cells a tile slid into without merging

	// scratch
	line      []lineTile
	mergeDest IndexSet
	movedTo   IndexSet
	movedOff  IndexSet
}

type lineTile struct {
	index int
	value int
}

// Reset empties the analysis, keeping allocated capacity.
func (a *MoveAnalysis) Reset() {
	a.Movements = a.Movements[:0]
	a.Spawned = resetSet(a.Spawned)
	a.Merged = resetSet(a.Merged)
	a.MovedTo = resetSet(a.MovedTo)
	a.mergeDest = resetSet(a.mergeDest)
	a.movedTo = resetSet(a.movedTo)
	a.movedOff = resetSet(a.movedOff)
}

func resetSet(s IndexSet) IndexSet {
	if s == nil {
		return make(IndexSet)
	}
	clear(s)
	return s
}

// Clone returns a deep copy that is safe to keep across AnalyzeMove calls.
func (a *MoveAnalysis) Clone() *MoveAnalysis {
	c := &MoveAnalysis{
		Movements: slices.Clone(a.Movements),
		Spawned:   make(IndexSet, len(a.Spawned)),
		Merged:    make(IndexSet, len(a.Merged)),
		MovedTo:   make(IndexSet, len(a.MovedTo)),
	}
	for idx := range a.Spawned {
		c.Spawned.Add(idx)
	}
	for idx := range a.Merged {
		c.Merged.Add(idx)
	}
	for idx := range a.MovedTo {
		c.MovedTo.Add(idx)
	}
	return c
}

// Analyze is AnalyzeMove into a freshly allocated result.
func Analyze(prev, next Board, dir Direction) *MoveAnalysis {
	a := &MoveAnalysis{}
	AnalyzeMove(prev, next, dir, a)
	return a
}

// AnalyzeMove reconstructs which tile went where when prev became next by
// moving in dir, and classifies each occupied cell of next as merged,
// spawned or moved-to. Stationary tiles appear in no set.
//
// Tile identity is not tracked between boards, so trajectories are derived by
// re-running the line compaction over prev. Inputs are not modified; dst is
// reset first.
func AnalyzeMove(prev, next Board, dir Direction, dst *MoveAnalysis) {
	dst.Reset()
	if !dir.Valid() || prev.size == 0 || prev.size != next.size {
		return
	}

	n := prev.size
	for line := range n {
		dst.line = dst.line[:0]
		for i := range n {
			idx := lineIndex(n, dir, line, i)
			if v := prev.cells[idx]; v != 0 {
				dst.line = append(dst.line, lineTile{index: idx, value: v})
			}
		}

		slot := 0
		for i := 0; i < len(dst.line); i++ {
			to := lineIndex(n, dir, line, slot)
			cur := dst.line[i]
			if i+1 < len(dst.line) && cur.value == dst.line[i+1].value {
				partner := dst.line[i+1]
				dst.Movements = append(dst.Movements,
					TileMovement{From: prev.PositionOf(cur.index), To: prev.PositionOf(to), Value: cur.value, Merging: true},
					TileMovement{From: prev.PositionOf(partner.index), To: prev.PositionOf(to), Value: partner.value, Merging: true},
				)
				dst.mergeDest.Add(to)
				i++
			} else if cur.index != to {
				dst.Movements = append(dst.Movements,
					TileMovement{From: prev.PositionOf(cur.index), To: prev.PositionOf(to), Value: cur.value})
			}
			slot++
		}
	}

	for _, m := range dst.Movements {
		from := prev.Index(m.From.Row, m.From.Col)
		to := prev.Index(m.To.Row, m.To.Col)
		if from != to {
			dst.movedOff.Add(from)
		}
		if !m.Merging {
			dst.movedTo.Add(to)
		}
	}

	for idx, v := range next.cells {
		if v == 0 {
			continue
		}
		switch {
		case dst.mergeDest.Has(idx):
			dst.Merged.Add(idx)
		case prev.cells[idx] == 0 && !dst.movedTo.Has(idx):
			dst.Spawned.Add(idx)
		case dst.movedOff.Has(idx) && (v == 2 || v == 4):
			// Vacated by the slide and refilled; a spawn wins over a move.
			dst.Spawned.Add(idx)
		case dst.movedTo.Has(idx):
			dst.MovedTo.Add(idx)
		}
	}
}
