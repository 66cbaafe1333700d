package t2048

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every move direction.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four move directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection parses a direction name (case-insensitive, single-letter
// abbreviations accepted).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidArgument, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// lineIndex maps step i of line l to a flat board index, walking in the
// direction of travel: Left reads rows left-to-right, Right right-to-left,
// Up reads columns top-to-bottom, Down bottom-to-top.
func lineIndex(size int, dir Direction, line, i int) int {
	switch dir {
	case DirLeft:
		return line*size + i
	case DirRight:
		return line*size + (size - 1 - i)
	case DirUp:
		return i*size + line
	default: // DirDown
		return (size-1-i)*size + line
	}
}

// slideLine compacts and merges the non-zero values of one line, in travel
// order, writing the result padded with zeros into out. A merged tile is
// consumed and never merges again in the same pass.
func slideLine(values []int, out []int) (score int) {
	w := 0
	for i := 0; i < len(values); i++ {
		if i+1 < len(values) && values[i] == values[i+1] {
			merged := values[i] * 2
			out[w] = merged
			score += merged
			i++
		} else {
			out[w] = values[i]
		}
		w++
	}
	for ; w < len(out); w++ {
		out[w] = 0
	}
	return score
}

// Slide performs a move in the given direction.
// Returns the new board, score gained, and whether the board changed.
// When nothing changes the original board is returned.
func Slide(board Board, dir Direction) (Board, int, bool) {
	if !dir.Valid() || board.size == 0 {
		return board, 0, false
	}

	n := board.size
	next := board.Clone()
	values := make([]int, 0, n)
	out := make([]int, n)
	totalScore := 0
	changed := false

	for line := range n {
		values = values[:0]
		for i := range n {
			if v := board.cells[lineIndex(n, dir, line, i)]; v != 0 {
				values = append(values, v)
			}
		}

		totalScore += slideLine(values, out)

		for i := range n {
			idx := lineIndex(n, dir, line, i)
			if next.cells[idx] != out[i] {
				next.cells[idx] = out[i]
				changed = true
			}
		}
	}

	if !changed {
		return board, 0, false
	}
	return next, totalScore, true
}

// CanMove returns true if any move is possible.
func CanMove(board Board) bool {
	return board.CountEmptyCells() > 0 || board.HasPossibleMerges()
}

// IsGameOver returns true if the board is full and no adjacent tiles match.
func IsGameOver(board Board) bool {
	return !CanMove(board)
}
