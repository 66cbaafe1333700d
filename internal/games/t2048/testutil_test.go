package t2048

import (
	"math/rand"
	"testing"
)

// scriptedSource replays fixed draws. When a script runs out it returns 0
// for Intn and 0.5 for Float64 (a 2 under default rules).
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// randomBoard fills a size×size board with values from {0,2,4,8,16}.
func randomBoard(rng *rand.Rand, size int) Board {
	values := []int{0, 0, 2, 4, 8, 16}
	cells := make([]int, size*size)
	for i := range cells {
		cells[i] = values[rng.Intn(len(values))]
	}
	b, err := NewBoardFromCells(size, cells)
	if err != nil {
		panic(err)
	}
	return b
}

func resumeBoard(t *testing.T, grid [][]int, cfg Config, rng RandomSource) *Session {
	t.Helper()
	cfg.Size = len(grid)
	s, err := Resume(GameState{Board: MustBoard(grid)}, cfg, rng)
	if err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	return s
}
