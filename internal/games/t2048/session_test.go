package t2048

import (
	"errors"
	"testing"
)

func TestNewSession(t *testing.T) {
	s, err := New(DefaultConfig(), &scriptedSource{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	st := s.State()
	if got := st.Board.CountEmptyCells(); got != 14 {
		t.Errorf("new game has %d empty cells, want 14", got)
	}
	if st.Board.Get(0, 0) != 2 || st.Board.Get(0, 1) != 2 {
		t.Errorf("scripted spawns landed wrong:\n%v", st.Board)
	}
	if st.Score != 0 || st.MoveCount != 0 || st.Won || st.GameOver {
		t.Errorf("new game state = %+v", st)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("new game should have no undo or redo")
	}
	if !s.Initial().Equal(st) {
		t.Error("Initial() should equal State() before any move")
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(nil rng) error = %v, want ErrInvalidArgument", err)
	}
	cfg := DefaultConfig()
	cfg.Size = 0
	if _, err := New(cfg, &scriptedSource{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(size 0) error = %v, want ErrInvalidArgument", err)
	}

	saved := GameState{Board: MustBoard([][]int{{2, 0}, {0, 0}})}
	if _, err := Resume(saved, DefaultConfig(), &scriptedSource{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Resume(size mismatch) error = %v, want ErrInvalidArgument", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"3x3", func(c *Config) { c.Size = 3 }, false},
		{"negative size", func(c *Config) { c.Size = -1 }, true},
		{"win tile 2", func(c *Config) { c.WinTile = 2 }, true},
		{"win tile not power of two", func(c *Config) { c.WinTile = 1000 }, true},
		{"win tile 4", func(c *Config) { c.WinTile = 4 }, false},
		{"prob below zero", func(c *Config) { c.Spawn4Prob = -0.1 }, true},
		{"prob above one", func(c *Config) { c.Spawn4Prob = 1.5 }, true},
		{"always four", func(c *Config) { c.Spawn4Prob = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error %v should wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestMoveMergesAndSpawns(t *testing.T) {
	s := resumeBoard(t, [][]int{
		{2, 2, 2, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, DefaultConfig(), &scriptedSource{})

	if !s.Move(DirLeft) {
		t.Fatal("Move(Left) should change the board")
	}

	st := s.State()
	want := MustBoard([][]int{
		{4, 4, 2, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if !st.Board.Equal(want) {
		t.Errorf("board after move =\n%v\nwant\n%v", st.Board, want)
	}
	if st.Score != 8 || st.MoveCount != 1 {
		t.Errorf("score = %d, moves = %d; want 8, 1", st.Score, st.MoveCount)
	}

	hist := s.History()
	if len(hist) != 1 {
		t.Fatalf("History() has %d records, want 1", len(hist))
	}
	if hist[0] != (MoveRecord{Direction: DirLeft, SpawnedIndex: 2, SpawnedValue: 2}) {
		t.Errorf("History()[0] = %+v", hist[0])
	}
}

func TestMoveSpawnsFour(t *testing.T) {
	grid := [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	s := resumeBoard(t, grid, DefaultConfig(), &scriptedSource{floats: []float64{0.05}})
	s.Move(DirLeft)
	if got := s.State().Board.Get(0, 1); got != 4 {
		t.Errorf("spawn with draw 0.05 < 0.10 = %d, want 4", got)
	}

	cfg := DefaultConfig()
	cfg.Spawn4Prob = 0
	s = resumeBoard(t, grid, cfg, &scriptedSource{floats: []float64{0}})
	s.Move(DirLeft)
	if got := s.State().Board.Get(0, 1); got != 2 {
		t.Errorf("spawn with probability 0 = %d, want 2", got)
	}
}

func TestMoveUnchanged(t *testing.T) {
	s := resumeBoard(t, [][]int{
		{2, 4},
		{0, 0},
	}, DefaultConfig(), &scriptedSource{})
	before := s.State()

	for _, dir := range []Direction{DirLeft, DirUp} {
		if s.Move(dir) {
			t.Errorf("Move(%v) reported a change on a packed board", dir)
		}
	}
	if !s.State().Equal(before) {
		t.Error("an unchanged move must not alter state")
	}
	if s.CanUndo() {
		t.Error("an unchanged move must not be recorded")
	}
	if s.Move(Direction(9)) {
		t.Error("an invalid direction must be rejected")
	}
}

func TestMoveConservesSum(t *testing.T) {
	s, err := New(DefaultConfig(), NewRandomSource(42))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for i := 0; i < 300 && !s.State().GameOver; i++ {
		before := s.State()
		if !s.Move(Directions[i%len(Directions)]) {
			continue
		}
		after := s.State()
		rec := s.History()[s.Cursor()-1]

		if after.Board.Sum() != before.Board.Sum()+rec.SpawnedValue {
			t.Fatalf("move %d: sum %d, want %d + %d", i, after.Board.Sum(), before.Board.Sum(), rec.SpawnedValue)
		}
		if after.Score < before.Score {
			t.Fatalf("move %d: score decreased from %d to %d", i, before.Score, after.Score)
		}
		if after.MoveCount != before.MoveCount+1 {
			t.Fatalf("move %d: move count %d, want %d", i, after.MoveCount, before.MoveCount+1)
		}
	}
}

func TestUndoRestoresExactStates(t *testing.T) {
	s, err := New(DefaultConfig(), NewRandomSource(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	states := []GameState{s.State()}
	for i := 0; len(states) < 40 && i < 400; i++ {
		if s.Move(Directions[(i*3)%len(Directions)]) {
			states = append(states, s.State())
		}
	}

	for i := len(states) - 2; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo() failed with %d states left", i+1)
		}
		if !s.State().Equal(states[i]) {
			t.Fatalf("after undo to %d: got\n%v\nwant\n%v", i, s.State().Board, states[i].Board)
		}
	}

	if s.Undo() {
		t.Error("Undo() at the initial state should return false")
	}
	if !s.State().Equal(states[0]) {
		t.Error("failed Undo() must leave state unchanged")
	}
}

func TestRedo(t *testing.T) {
	s, err := New(DefaultConfig(), NewRandomSource(3))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var states []GameState
	for i := 0; len(states) < 5 && i < 100; i++ {
		if s.Move(Directions[i%len(Directions)]) {
			states = append(states, s.State())
		}
	}

	if s.Redo() {
		t.Error("Redo() with nothing undone should return false")
	}

	for range 3 {
		s.Undo()
	}
	if !s.CanRedo() {
		t.Fatal("CanRedo() should be true after undo")
	}
	for i := 2; i < 5; i++ {
		if !s.Redo() {
			t.Fatalf("Redo() to state %d failed", i)
		}
		if !s.State().Equal(states[i]) {
			t.Fatalf("Redo() to state %d mismatched", i)
		}
	}

	// A new move drops the redo tail.
	s.Undo()
	for _, dir := range Directions {
		if s.Move(dir) {
			break
		}
	}
	if s.CanRedo() {
		t.Error("a new move should truncate redo history")
	}
	if len(s.Records()) != s.Cursor() {
		t.Errorf("Records() = %d, cursor = %d; want equal", len(s.Records()), s.Cursor())
	}
}

func TestSessionGameOver(t *testing.T) {
	s := resumeBoard(t, [][]int{
		{2, 4},
		{4, 2},
	}, DefaultConfig(), &scriptedSource{})

	for _, dir := range Directions {
		if s.Move(dir) {
			t.Errorf("Move(%v) should fail on a locked board", dir)
		}
	}
	st := s.State()
	if !st.GameOver || st.Status() != StatusGameOver {
		t.Errorf("state = %+v, want game over", st)
	}
}

func TestMoveIntoGameOver(t *testing.T) {
	obs := &recordingObserver{}
	s, err := Resume(GameState{Board: MustBoard([][]int{
		{2, 2},
		{8, 4},
	})}, Config{Size: 2, WinTile: 2048, AllowContinueAfterWin: true}, &scriptedSource{}, WithObserver(obs))
	if err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}

	if !s.Move(DirLeft) {
		t.Fatal("Move(Left) should merge")
	}
	if !s.State().GameOver {
		t.Errorf("board\n%v\nshould be game over", s.State().Board)
	}
	if obs.moves != 1 || obs.gameOvers != 1 {
		t.Errorf("observer saw %d moves, %d game overs; want 1, 1", obs.moves, obs.gameOvers)
	}
	if s.Move(DirRight) {
		t.Error("Move() after game over should return false")
	}

	if !s.Undo() || s.State().GameOver {
		t.Error("undo should leave game over")
	}
	if obs.undos != 1 {
		t.Errorf("observer saw %d undos, want 1", obs.undos)
	}
}

func TestWin(t *testing.T) {
	grid := [][]int{
		{2, 2},
		{0, 0},
	}
	cfg := Config{Size: 2, WinTile: 4, AllowContinueAfterWin: true}

	obs := &recordingObserver{}
	s, err := Resume(GameState{Board: MustBoard(grid)}, cfg, &scriptedSource{}, WithObserver(obs))
	if err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	s.Move(DirLeft)
	if !s.State().Won || s.State().Status() != StatusWon {
		t.Fatalf("state = %+v, want won", s.State())
	}
	if obs.wins != 1 {
		t.Errorf("observer saw %d wins, want 1", obs.wins)
	}
	if !s.Move(DirDown) {
		t.Error("play should continue after a win")
	}
	if !s.State().Won {
		t.Error("Won must be sticky")
	}
	if obs.wins != 1 {
		t.Errorf("OnWin fired %d times, want once", obs.wins)
	}

	s.Undo()
	s.Undo()
	if s.State().Won {
		t.Error("undo past the winning move should clear Won")
	}

	cfg.AllowContinueAfterWin = false
	s = resumeBoard(t, grid, cfg, &scriptedSource{})
	s.Move(DirLeft)
	if s.Move(DirDown) {
		t.Error("Move() after a win must fail when continuing is disallowed")
	}
}

func TestRedoNotifiesObserver(t *testing.T) {
	tests := []struct {
		name          string
		grid          [][]int
		cfg           Config
		wantWins      int
		wantGameOvers int
	}{
		{
			name:     "win",
			grid:     [][]int{{2, 2}, {0, 0}},
			cfg:      Config{Size: 2, WinTile: 4, AllowContinueAfterWin: true},
			wantWins: 2,
		},
		{
			name:          "game over",
			grid:          [][]int{{2, 2}, {8, 4}},
			cfg:           Config{Size: 2, WinTile: 2048},
			wantGameOvers: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			s, err := Resume(GameState{Board: MustBoard(tt.grid)}, tt.cfg, &scriptedSource{}, WithObserver(obs))
			if err != nil {
				t.Fatalf("Resume() failed: %v", err)
			}
			if !s.Move(DirLeft) {
				t.Fatal("Move(Left) should merge")
			}
			moved := s.State()
			if !s.Undo() || !s.Redo() {
				t.Fatal("undo then redo should both succeed")
			}
			if !s.State().Equal(moved) {
				t.Errorf("redo state = %+v, want %+v", s.State(), moved)
			}
			if obs.moves != 2 || obs.wins != tt.wantWins || obs.gameOvers != tt.wantGameOvers {
				t.Errorf("observer saw %d moves, %d wins, %d game overs; want 2, %d, %d",
					obs.moves, obs.wins, obs.gameOvers, tt.wantWins, tt.wantGameOvers)
			}
		})
	}
}

func TestResumeWithHistory(t *testing.T) {
	s, err := New(DefaultConfig(), NewRandomSource(11))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for i := range 20 {
		s.Move(Directions[i%len(Directions)])
	}
	s.Undo()
	s.Undo()

	restored, err := ResumeWithHistory(s.Initial(), s.Records(), s.Cursor(), DefaultConfig(), NewRandomSource(1))
	if err != nil {
		t.Fatalf("ResumeWithHistory() failed: %v", err)
	}
	if !restored.State().Equal(s.State()) {
		t.Error("restored state does not match")
	}
	if !restored.Redo() || !s.Redo() || !restored.State().Equal(s.State()) {
		t.Error("redo after restore should follow the recorded tail")
	}

	if _, err := ResumeWithHistory(s.Initial(), s.Records(), len(s.Records())+1, DefaultConfig(), &scriptedSource{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("cursor past history error = %v, want ErrInvalidArgument", err)
	}
}

func TestResumeWithHistoryRejectsBadRecords(t *testing.T) {
	initial := GameState{Board: MustBoard([][]int{
		{2, 0},
		{0, 0},
	})}
	cfg := Config{Size: 2, WinTile: 2048}

	// Left does not move a tile already in the corner.
	noop := []MoveRecord{{Direction: DirLeft, SpawnedIndex: 1, SpawnedValue: 2}}
	if _, err := ResumeWithHistory(initial, noop, 1, cfg, &scriptedSource{}); !errors.Is(err, errReplayNoChange) {
		t.Errorf("no-op record error = %v, want errReplayNoChange", err)
	}

	// Right moves the tile to index 1, which the record then claims to spawn on.
	occupied := []MoveRecord{{Direction: DirRight, SpawnedIndex: 1, SpawnedValue: 2}}
	if _, err := ResumeWithHistory(initial, occupied, 1, cfg, &scriptedSource{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("occupied spawn error = %v, want ErrInvalidArgument", err)
	}
}

type recordingObserver struct {
	NopObserver
	moves, wins, gameOvers, undos int
}

func (o *recordingObserver) OnMove(Direction, GameState, GameState) { o.moves++ }
func (o *recordingObserver) OnWin(GameState)                        { o.wins++ }
func (o *recordingObserver) OnGameOver(GameState)                   { o.gameOvers++ }
func (o *recordingObserver) OnUndo(GameState)                       { o.undos++ }
