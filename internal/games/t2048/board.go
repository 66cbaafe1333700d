package t2048

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidArgument reports a malformed board size or cell array.
	ErrInvalidArgument = errors.New("t2048: invalid argument")
	// ErrOutOfRange reports a cell coordinate outside the board.
	ErrOutOfRange = errors.New("t2048: out of range")
)

// Position is a zero-based (row, column) cell coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String returns the position as "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Board is an immutable square grid of tile values. Zero means empty.
// The zero Board has size 0 and is not usable; build boards with the constructors.
type Board struct {
	size  int
	cells []int
}

// NewBoard returns an empty size×size board.
func NewBoard(size int) (Board, error) {
	if size <= 0 {
		return Board{}, fmt.Errorf("%w: board size %d must be positive", ErrInvalidArgument, size)
	}
	return Board{size: size, cells: make([]int, size*size)}, nil
}

// NewBoardFromCells builds a board from row-major cell values.
// The slice is copied.
func NewBoardFromCells(size int, cells []int) (Board, error) {
	if size <= 0 {
		return Board{}, fmt.Errorf("%w: board size %d must be positive", ErrInvalidArgument, size)
	}
	if cells == nil {
		return Board{}, fmt.Errorf("%w: nil cells", ErrInvalidArgument)
	}
	if len(cells) != size*size {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidArgument, len(cells), size*size)
	}
	for i, v := range cells {
		if v < 0 {
			return Board{}, fmt.Errorf("%w: negative value %d at index %d", ErrInvalidArgument, v, i)
		}
	}
	b := Board{size: size, cells: make([]int, len(cells))}
	copy(b.cells, cells)
	return b, nil
}

// NewBoardFromGrid builds a board from a square 2D grid.
func NewBoardFromGrid(grid [][]int) (Board, error) {
	if len(grid) == 0 {
		return Board{}, fmt.Errorf("%w: empty grid", ErrInvalidArgument)
	}
	size := len(grid)
	cells := make([]int, 0, size*size)
	for r, row := range grid {
		if len(row) != size {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidArgument, r, len(row), size)
		}
		cells = append(cells, row...)
	}
	return NewBoardFromCells(size, cells)
}

// MustBoard is like NewBoardFromGrid but panics on invalid input.
// Intended for fixtures and tests.
func MustBoard(grid [][]int) Board {
	b, err := NewBoardFromGrid(grid)
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns the board dimension N.
func (b Board) Size() int {
	return b.size
}

// Len returns the number of cells (N²).
func (b Board) Len() int {
	return len(b.cells)
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	c := Board{size: b.size, cells: make([]int, len(b.cells))}
	copy(c.cells, b.cells)
	return c
}

// Index converts (row, col) to a flat row-major index.
func (b Board) Index(row, col int) int {
	return row*b.size + col
}

// PositionOf converts a flat index to a Position.
func (b Board) PositionOf(index int) Position {
	return Position{Row: index / b.size, Col: index % b.size}
}

func (b Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Lookup returns the value at (row, col), or an ErrOutOfRange error.
func (b Board) Lookup(row, col int) (int, error) {
	if !b.inBounds(row, col) {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfRange, row, col, b.size, b.size)
	}
	return b.cells[b.Index(row, col)], nil
}

// Get returns the value at (row, col). It panics on invalid coordinates.
func (b Board) Get(row, col int) int {
	v, err := b.Lookup(row, col)
	if err != nil {
		panic(err)
	}
	return v
}

// At returns the value at a flat index. It panics on an invalid index.
func (b Board) At(index int) int {
	if index < 0 || index >= len(b.cells) {
		panic(fmt.Errorf("%w: index %d on %dx%d board", ErrOutOfRange, index, b.size, b.size))
	}
	return b.cells[index]
}

// WithTile returns a copy of the board with (row, col) set to value.
// The receiver is unchanged. It panics on invalid coordinates.
func (b Board) WithTile(row, col, value int) Board {
	if !b.inBounds(row, col) {
		panic(fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfRange, row, col, b.size, b.size))
	}
	return b.WithIndex(b.Index(row, col), value)
}

// WithIndex returns a copy of the board with the flat index set to value.
func (b Board) WithIndex(index, value int) Board {
	if index < 0 || index >= len(b.cells) {
		panic(fmt.Errorf("%w: index %d on %dx%d board", ErrOutOfRange, index, b.size, b.size))
	}
	c := b.Clone()
	c.cells[index] = value
	return c
}

// Cells returns a row-major copy of the cell values.
func (b Board) Cells() []int {
	out := make([]int, len(b.cells))
	copy(out, b.cells)
	return out
}

// Rows returns the board as a fresh 2D grid.
func (b Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for r := range b.size {
		rows[r] = make([]int, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

// CountEmptyCells returns the number of zero cells.
func (b Board) CountEmptyCells() int {
	n := 0
	for _, v := range b.cells {
		if v == 0 {
			n++
		}
	}
	return n
}

// FindEmptyCells returns the positions of all empty cells in row-major order.
func (b Board) FindEmptyCells() []Position {
	var cells []Position
	for i, v := range b.cells {
		if v == 0 {
			cells = append(cells, b.PositionOf(i))
		}
	}
	return cells
}

// emptyIndices is FindEmptyCells in flat-index form.
func (b Board) emptyIndices() []int {
	var idx []int
	for i, v := range b.cells {
		if v == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Contains reports whether any cell holds exactly value.
func (b Board) Contains(value int) bool {
	for _, v := range b.cells {
		if v == value {
			return true
		}
	}
	return false
}

// ContainsAtLeast reports whether any cell holds a value >= threshold.
func (b Board) ContainsAtLeast(threshold int) bool {
	for _, v := range b.cells {
		if v >= threshold {
			return true
		}
	}
	return false
}

// HasPossibleMerges reports whether two horizontally or vertically adjacent
// cells hold the same non-zero value.
func (b Board) HasPossibleMerges() bool {
	n := b.size
	for r := range n {
		for c := range n {
			v := b.cells[r*n+c]
			if v == 0 {
				continue
			}
			// Check right neighbor
			if c < n-1 && b.cells[r*n+c+1] == v {
				return true
			}
			// Check bottom neighbor
			if r < n-1 && b.cells[(r+1)*n+c] == v {
				return true
			}
		}
	}
	return false
}

// MaxTile returns the highest tile value on the board.
func (b Board) MaxTile() int {
	maxVal := 0
	for _, v := range b.cells {
		maxVal = max(maxVal, v)
	}
	return maxVal
}

// Sum returns the total of all cell values.
func (b Board) Sum() int {
	total := 0
	for _, v := range b.cells {
		total += v
	}
	return total
}

// Equal reports whether both boards have the same size and cell values.
func (b Board) Equal(other Board) bool {
	if b.size != other.size {
		return false
	}
	for i, v := range b.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// String renders the board as space-separated rows, one per line.
func (b Board) String() string {
	var sb strings.Builder
	for r := range b.size {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range b.size {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(b.cells[r*b.size+c]))
		}
	}
	return sb.String()
}
