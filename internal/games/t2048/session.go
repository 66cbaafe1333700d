package t2048

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Config holds the rules a Session plays by.
type Config struct {
	Size                  int     // Board dimension N
	WinTile               int     // Tile value that sets Won
	AllowContinueAfterWin bool    // Whether moves are accepted once Won
	Spawn4Prob            float64 // Probability a spawned tile is 4 rather than 2
}

// DefaultConfig returns the classic 4x4, 2048-to-win rules.
func DefaultConfig() Config {
	return Config{
		Size:                  4,
		WinTile:               2048,
		AllowContinueAfterWin: true,
		Spawn4Prob:            0.10,
	}
}

// Validate checks that the rules describe a playable game.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrInvalidArgument, c.Size)
	}
	if c.WinTile < 4 || c.WinTile&(c.WinTile-1) != 0 {
		return fmt.Errorf("%w: win tile %d must be a power of two >= 4", ErrInvalidArgument, c.WinTile)
	}
	if c.Spawn4Prob < 0 || c.Spawn4Prob > 1 {
		return fmt.Errorf("%w: spawn-4 probability %v outside [0,1]", ErrInvalidArgument, c.Spawn4Prob)
	}
	return nil
}

// Observer receives gameplay notifications, e.g. for statistics or achievements.
// Callbacks run synchronously on the goroutine driving the Session. Redo
// reports the re-applied move exactly as Move does.
type Observer interface {
	OnMove(dir Direction, before, after GameState)
	OnWin(state GameState)
	OnGameOver(state GameState)
	OnUndo(state GameState)
}

// NopObserver implements Observer with no-ops. Embed it to override selectively.
type NopObserver struct{}

func (NopObserver) OnMove(Direction, GameState, GameState) {}
func (NopObserver) OnWin(GameState)                        {}
func (NopObserver) OnGameOver(GameState)                   {}
func (NopObserver) OnUndo(GameState)                       {}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Sessions log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a gameplay observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// Session owns a game in progress: the current state, the move log and the
// undo cursor. Undo rebuilds state by replaying the log from the initial state
// with the recorded spawns, so no randomness is redrawn.
//
// A Session is not safe for concurrent use; confine it to one goroutine or
// serialize calls externally.
type Session struct {
	cfg      Config
	rng      RandomSource
	logger   *log.Logger
	observer Observer

	initial GameState
	state   GameState
	history []MoveRecord
	cursor  int // Number of active records in history
}

func newSession(cfg Config, rng RandomSource, opts []Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidArgument)
	}
	s := &Session{
		cfg:      cfg,
		rng:      rng,
		logger:   log.New(io.Discard),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// New starts a fresh game with two spawned tiles.
func New(cfg Config, rng RandomSource, opts ...Option) (*Session, error) {
	s, err := newSession(cfg, rng, opts)
	if err != nil {
		return nil, err
	}
	s.NewGame()
	return s, nil
}

// Resume continues from a saved state. History starts empty, so Undo is
// unavailable until new moves are made.
func Resume(saved GameState, cfg Config, rng RandomSource, opts ...Option) (*Session, error) {
	s, err := newSession(cfg, rng, opts)
	if err != nil {
		return nil, err
	}
	if saved.Board.Size() != cfg.Size {
		return nil, fmt.Errorf("%w: saved board is %dx%d, config wants %d", ErrInvalidArgument,
			saved.Board.Size(), saved.Board.Size(), cfg.Size)
	}
	s.reset(saved.Clone())
	s.logger.Debug("resumed", "score", saved.Score, "moves", saved.MoveCount)
	return s, nil
}

// ResumeWithHistory restores a session from its initial state, its move log
// and cursor. The current state is rebuilt by replay; records that do not
// replay cleanly are rejected.
func ResumeWithHistory(initial GameState, history []MoveRecord, cursor int, cfg Config, rng RandomSource, opts ...Option) (*Session, error) {
	s, err := Resume(initial, cfg, rng, opts...)
	if err != nil {
		return nil, err
	}
	if cursor < 0 || cursor > len(history) {
		return nil, fmt.Errorf("%w: cursor %d outside [0,%d]", ErrInvalidArgument, cursor, len(history))
	}

	// Every record, including the redo tail, must replay.
	state := s.initial
	for i, rec := range history {
		if state, err = applyRecord(state, rec, cfg.WinTile); err != nil {
			return nil, fmt.Errorf("t2048: history record %d: %w", i, err)
		}
	}

	s.history = append([]MoveRecord(nil), history...)
	s.cursor = cursor
	s.state = s.replay(cursor)
	return s, nil
}

// reset installs initial as both the starting and current state and clears history.
func (s *Session) reset(initial GameState) {
	s.initial = initial
	s.state = initial
	s.history = nil
	s.cursor = 0
}

// NewGame discards the current game and history and spawns two fresh tiles.
func (s *Session) NewGame() {
	board, _ := NewBoard(s.cfg.Size)
	board, _, _ = s.spawn(board)
	board, _, _ = s.spawn(board)

	s.reset(GameState{
		Board:    board,
		Won:      board.ContainsAtLeast(s.cfg.WinTile),
		GameOver: IsGameOver(board),
	})
	s.logger.Debug("new game", "size", s.cfg.Size, "win_tile", s.cfg.WinTile)
}

// spawn places a 2 (or, with Spawn4Prob, a 4) on a random empty cell.
// Returns index -1 when the board is full.
func (s *Session) spawn(board Board) (Board, int, int) {
	empty := board.emptyIndices()
	if len(empty) == 0 {
		return board, -1, 0
	}

	idx := empty[s.rng.Intn(len(empty))]
	value := 2
	if s.rng.Float64() < s.cfg.Spawn4Prob {
		value = 4
	}
	return board.WithIndex(idx, value), idx, value
}

// Move slides the board in dir, spawns a tile and records the move.
// Returns true iff the board changed.
func (s *Session) Move(dir Direction) bool {
	if !dir.Valid() || s.state.GameOver {
		return false
	}
	if s.state.Won && !s.cfg.AllowContinueAfterWin {
		return false
	}

	before := s.state
	slid, gained, changed := Slide(before.Board, dir)
	if !changed {
		if IsGameOver(before.Board) {
			s.state.GameOver = true
			s.logger.Debug("game over", "score", s.state.Score, "moves", s.state.MoveCount)
			s.observer.OnGameOver(s.state)
		}
		return false
	}

	// A new move invalidates anything that could have been redone.
	s.history = s.history[:s.cursor]

	board, idx, value := s.spawn(slid)
	if idx < 0 {
		s.logger.Warn("no empty cell to spawn after a changing move", "dir", dir, "moves", before.MoveCount)
	}

	s.history = append(s.history, MoveRecord{Direction: dir, SpawnedIndex: idx, SpawnedValue: value})
	s.cursor++
	s.state = advance(before, board, gained, s.cfg.WinTile)

	s.logger.Debug("move", "dir", dir, "gained", gained, "score", s.state.Score, "spawn", idx)
	s.observer.OnMove(dir, before, s.state)
	if s.state.Won && !before.Won {
		s.observer.OnWin(s.state)
	}
	if s.state.GameOver {
		s.observer.OnGameOver(s.state)
	}
	return true
}

// Undo reverts the last active move by replaying the log up to it.
// Returns false if there is nothing to undo.
func (s *Session) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.state = s.replay(s.cursor)
	s.logger.Debug("undo", "cursor", s.cursor, "score", s.state.Score)
	s.observer.OnUndo(s.state)
	return true
}

// Redo re-applies the next undone move with its recorded spawn.
// Returns false if no undone move is retained.
func (s *Session) Redo() bool {
	if s.cursor >= len(s.history) {
		return false
	}
	before := s.state
	rec := s.history[s.cursor]
	next, err := applyRecord(before, rec, s.cfg.WinTile)
	if err != nil {
		// Records are only appended after a changing move, so replay cannot diverge.
		s.logger.Error("redo diverged from history", "cursor", s.cursor, "error", err)
		return false
	}
	s.cursor++
	s.state = next
	s.logger.Debug("redo", "cursor", s.cursor, "score", s.state.Score)
	s.observer.OnMove(rec.Direction, before, s.state)
	if s.state.Won && !before.Won {
		s.observer.OnWin(s.state)
	}
	if s.state.GameOver {
		s.observer.OnGameOver(s.state)
	}
	return true
}

// replay rebuilds the state after the first n records.
func (s *Session) replay(n int) GameState {
	state := s.initial.Clone()
	for _, rec := range s.history[:n] {
		next, err := applyRecord(state, rec, s.cfg.WinTile)
		if err != nil {
			s.logger.Error("replay diverged from history", "record", rec, "error", err)
			break
		}
		state = next
	}
	state.GameOver = IsGameOver(state.Board)
	return state
}

var errReplayNoChange = errors.New("move does not change the board")

// applyRecord re-executes one recorded move, placing the recorded spawn
// instead of drawing a new one.
func applyRecord(state GameState, rec MoveRecord, winTile int) (GameState, error) {
	slid, gained, changed := Slide(state.Board, rec.Direction)
	if !changed {
		return state, fmt.Errorf("t2048: replay %s: %w", rec.Direction, errReplayNoChange)
	}
	if rec.SpawnedIndex >= 0 {
		if rec.SpawnedIndex >= slid.Len() || slid.At(rec.SpawnedIndex) != 0 {
			return state, fmt.Errorf("%w: spawn index %d is not an empty cell", ErrInvalidArgument, rec.SpawnedIndex)
		}
		slid = slid.WithIndex(rec.SpawnedIndex, rec.SpawnedValue)
	}
	return advance(state, slid, gained, winTile), nil
}

// advance builds the state that follows prev after a successful move.
func advance(prev GameState, board Board, gained, winTile int) GameState {
	return GameState{
		Board:     board,
		Score:     prev.Score + gained,
		MoveCount: prev.MoveCount + 1,
		Won:       prev.Won || board.ContainsAtLeast(winTile),
		GameOver:  IsGameOver(board),
	}
}

// State returns the current game state.
func (s *Session) State() GameState {
	return s.state
}

// Initial returns the state replay starts from.
func (s *Session) Initial() GameState {
	return s.initial
}

// Config returns the session rules.
func (s *Session) Config() Config {
	return s.cfg
}

// CanUndo reports whether Undo would revert a move.
func (s *Session) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether Redo would re-apply a move.
func (s *Session) CanRedo() bool {
	return s.cursor < len(s.history)
}

// Cursor returns the number of active move records.
func (s *Session) Cursor() int {
	return s.cursor
}

// History returns a copy of the active move records.
func (s *Session) History() []MoveRecord {
	return append([]MoveRecord(nil), s.history[:s.cursor]...)
}

// Records returns a copy of every retained record, including undone ones.
func (s *Session) Records() []MoveRecord {
	return append([]MoveRecord(nil), s.history...)
}
