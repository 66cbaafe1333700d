package t2048

import (
	"math/rand"
	"slices"
	"testing"
)

func TestSlideLineMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
	}{
		{
			name:     "simple merge",
			input:    []int{2, 2},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    []int{2, 2, 2},
			expected: []int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "double merge",
			input:    []int{2, 2, 2, 2},
			expected: []int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "no merge possible",
			input:    []int{2, 4, 8, 16},
			expected: []int{2, 4, 8, 16},
			score:    0,
		},
		{
			name:     "merged tile does not merge again",
			input:    []int{2, 2, 4},
			expected: []int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "pair after a single",
			input:    []int{4, 2, 2},
			expected: []int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "empty line",
			input:    []int{},
			expected: []int{0, 0, 0, 0},
			score:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := []int{9, 9, 9, 9}
			score := slideLine(tt.input, out)
			if !slices.Equal(out, tt.expected) {
				t.Errorf("slideLine(%v) = %v, want %v", tt.input, out, tt.expected)
			}
			if score != tt.score {
				t.Errorf("slideLine(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

var slideFixture = [][]int{
	{2, 2, 0, 0},
	{4, 0, 4, 0},
	{2, 2, 2, 2},
	{0, 0, 0, 2},
}

func TestSlideDirections(t *testing.T) {
	tests := []struct {
		dir      Direction
		board    [][]int
		expected [][]int
		score    int
	}{
		{
			dir:   DirLeft,
			board: slideFixture,
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 4 + 8 + 8,
		},
		{
			dir:   DirRight,
			board: slideFixture,
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 4 + 8 + 8,
		},
		{
			dir: DirUp,
			board: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 4 + 8 + 8,
		},
		{
			dir: DirDown,
			board: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 4 + 8 + 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			board := MustBoard(tt.board)
			result, score, changed := Slide(board, tt.dir)

			if want := MustBoard(tt.expected); !result.Equal(want) {
				t.Errorf("Slide(%s): got\n%v\nwant\n%v", tt.dir, result, want)
			}
			if !changed {
				t.Errorf("Slide(%s) should indicate board changed", tt.dir)
			}
			if score != tt.score {
				t.Errorf("Slide(%s) score = %d, want %d", tt.dir, score, tt.score)
			}
			if !board.Equal(MustBoard(tt.board)) {
				t.Errorf("Slide(%s) modified its input", tt.dir)
			}
		})
	}
}

func TestSlideRowScenarios(t *testing.T) {
	tests := []struct {
		name    string
		row     []int
		want    []int
		score   int
		changed bool
	}{
		{"four equal tiles merge pairwise", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}, 8, true},
		{"gap then merge", []int{2, 0, 2, 4}, []int{4, 4, 0, 0}, 4, true},
		{"no change", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}, 0, false},
		{"one merge per tile", []int{4, 4, 4, 4}, []int{8, 8, 0, 0}, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := MustBoard([][]int{tt.row, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
			result, score, changed := Slide(board, DirLeft)

			if got := result.Rows()[0]; !slices.Equal(got, tt.want) {
				t.Errorf("row = %v, want %v", got, tt.want)
			}
			if score != tt.score {
				t.Errorf("score = %d, want %d", score, tt.score)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}
}

func TestSlideInvalidDirection(t *testing.T) {
	board := MustBoard(slideFixture)
	result, score, changed := Slide(board, Direction(42))
	if changed || score != 0 || !result.Equal(board) {
		t.Errorf("Slide with invalid direction = (%v, %d, %v), want no-op", result, score, changed)
	}
}

func TestSlideProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := range 500 {
		size := 3 + i%3
		board := randomBoard(rng, size)

		for _, dir := range Directions {
			slid, score, changed := Slide(board, dir)

			// Merging redistributes value, never creates or destroys it.
			if slid.Sum() != board.Sum() {
				t.Fatalf("Slide(%s) sum %d -> %d on\n%v", dir, board.Sum(), slid.Sum(), board)
			}

			// The score equals the total of the merged tiles produced.
			merged := 0
			for _, idx := range Analyze(board, slid, dir).Merged.Sorted() {
				merged += slid.At(idx)
			}
			if score != merged {
				t.Fatalf("Slide(%s) score %d, merged tiles total %d on\n%v", dir, score, merged, board)
			}

			if !changed {
				if !slid.Equal(board) || score != 0 {
					t.Fatalf("Slide(%s) reported no change but altered the board", dir)
				}
				continue
			}

			// A second slide can only change the board through new merges,
			// never by moving tiles into gaps.
			again, score2, changed2 := Slide(slid, dir)
			if changed2 && score2 == 0 {
				t.Fatalf("second Slide(%s) moved tiles without merging:\n%v\n->\n%v", dir, slid, again)
			}
		}
	}
}

func TestSlideTwiceIsNoOpWithoutPendingMerges(t *testing.T) {
	board := MustBoard([][]int{
		{2, 4, 0, 8},
		{0, 0, 2, 0},
		{16, 0, 0, 16},
		{2, 2, 8, 4},
	})
	slid, _, changed := Slide(board, DirLeft)
	if !changed {
		t.Fatal("first Slide(left) should change the board")
	}
	if _, _, changed := Slide(slid, DirLeft); changed {
		t.Errorf("second Slide(left) changed\n%v", slid)
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name     string
		board    [][]int
		gameOver bool
	}{
		{
			name: "full board without merges",
			board: [][]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			gameOver: true,
		},
		{
			name: "full board with horizontal merge",
			board: [][]int{
				{2, 2, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			gameOver: false,
		},
		{
			name: "full board with vertical merge",
			board: [][]int{
				{2, 4, 8, 16},
				{32, 64, 128, 16},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			gameOver: false,
		},
		{
			name: "board with empty cell",
			board: [][]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 0, 4096},
				{8192, 16384, 32768, 65536},
			},
			gameOver: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := MustBoard(tt.board)
			if got := IsGameOver(board); got != tt.gameOver {
				t.Errorf("IsGameOver() = %v, want %v", got, tt.gameOver)
			}
			if tt.gameOver {
				for _, dir := range Directions {
					if _, _, changed := Slide(board, dir); changed {
						t.Errorf("Slide(%s) changed a game-over board", dir)
					}
				}
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirUp, false},
		{"DOWN", DirDown, false},
		{" l ", DirLeft, false},
		{"r", DirRight, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDirectionText(t *testing.T) {
	for _, dir := range Directions {
		text, err := dir.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s) failed: %v", dir, err)
		}
		var back Direction
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != dir {
			t.Errorf("text round trip %s -> %s", dir, back)
		}
	}
	if _, err := Direction(9).MarshalText(); err == nil {
		t.Error("MarshalText of invalid direction should fail")
	}
}
