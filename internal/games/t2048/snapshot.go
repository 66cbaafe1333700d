package t2048

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SaveVersion is the only snapshot format version understood.
const SaveVersion = 1

// ErrUnsupportedVersion reports a snapshot with an unknown version.
var ErrUnsupportedVersion = errors.New("t2048: unsupported save version")

// SaveData is the flat, versioned snapshot of a GameState used for persistence.
type SaveData struct {
	Version    int   `json:"version"`
	Board      []int `json:"board"` // Row-major
	Size       int   `json:"size"`
	Score      int   `json:"score"`
	MoveCount  int   `json:"moveCount"`
	IsWon      bool  `json:"isWon"`
	IsGameOver bool  `json:"isGameOver"`
}

// NewSaveData captures state in the current snapshot format.
func NewSaveData(state GameState) SaveData {
	return SaveData{
		Version:    SaveVersion,
		Board:      state.Board.Cells(),
		Size:       state.Board.Size(),
		Score:      state.Score,
		MoveCount:  state.MoveCount,
		IsWon:      state.Won,
		IsGameOver: state.GameOver,
	}
}

// GameState validates the snapshot and rebuilds the state it describes.
func (d SaveData) GameState() (GameState, error) {
	if d.Version != SaveVersion {
		return GameState{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Score < 0 || d.MoveCount < 0 {
		return GameState{}, fmt.Errorf("%w: negative score or move count", ErrInvalidArgument)
	}
	board, err := NewBoardFromCells(d.Size, d.Board)
	if err != nil {
		return GameState{}, err
	}
	for i, v := range d.Board {
		if v != 0 && v&(v-1) != 0 {
			return GameState{}, fmt.Errorf("%w: cell %d value %d is not a power of two", ErrInvalidArgument, i, v)
		}
	}
	return GameState{
		Board:     board,
		Score:     d.Score,
		MoveCount: d.MoveCount,
		Won:       d.IsWon,
		GameOver:  d.IsGameOver,
	}, nil
}

// MarshalState encodes state as a JSON snapshot.
func MarshalState(state GameState) ([]byte, error) {
	data, err := json.Marshal(NewSaveData(state))
	if err != nil {
		return nil, fmt.Errorf("t2048: encode save: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes and validates a JSON snapshot.
func UnmarshalState(data []byte) (GameState, error) {
	var d SaveData
	if err := json.Unmarshal(data, &d); err != nil {
		return GameState{}, fmt.Errorf("t2048: decode save: %w", err)
	}
	return d.GameState()
}

// SessionSnapshot bundles everything needed to restore a session with its
// undo/redo history.
type SessionSnapshot struct {
	Initial SaveData     `json:"initial"`
	Current SaveData     `json:"current"`
	History []MoveRecord `json:"history"`
	Cursor  int          `json:"cursor"`
}

// Snapshot captures the session's initial state, current state and log.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		Initial: NewSaveData(s.initial),
		Current: NewSaveData(s.state),
		History: s.Records(),
		Cursor:  s.cursor,
	}
}

// RestoreSession rebuilds a session from a snapshot. If the history does not
// replay, it falls back to resuming from the current state alone.
func RestoreSession(snap SessionSnapshot, cfg Config, rng RandomSource, opts ...Option) (*Session, error) {
	current, err := snap.Current.GameState()
	if err != nil {
		return nil, err
	}
	initial, err := snap.Initial.GameState()
	if err == nil {
		s, histErr := ResumeWithHistory(initial, snap.History, snap.Cursor, cfg, rng, opts...)
		if histErr == nil && s.State().Equal(current) {
			return s, nil
		}
	}
	return Resume(current, cfg, rng, opts...)
}
