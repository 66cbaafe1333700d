package t2048

// GameState is an immutable snapshot of a game.
// A Session replaces its state on every successful move or undo, never mutating it.
type GameState struct {
	Board     Board
	Score     int
	MoveCount int
	Won       bool // Sticky once a tile >= the win tile appears
	GameOver  bool // No move changes the board in any direction
}

// Equal reports whether two states match field by field.
func (s GameState) Equal(other GameState) bool {
	return s.Score == other.Score &&
		s.MoveCount == other.MoveCount &&
		s.Won == other.Won &&
		s.GameOver == other.GameOver &&
		s.Board.Equal(other.Board)
}

// Clone returns a copy with an independent board.
func (s GameState) Clone() GameState {
	s.Board = s.Board.Clone()
	return s
}

// MoveRecord captures one successful move and the random spawn that followed,
// which is enough to replay it exactly.
type MoveRecord struct {
	Direction    Direction `json:"direction"`
	SpawnedIndex int       `json:"spawnedIndex"` // -1 if no cell was free
	SpawnedValue int       `json:"spawnedValue"`
}

// GameStatus is the session state machine position.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusGameOver   GameStatus = "game_over"
)

// Status derives the state machine position. GameOver takes precedence over Won.
func (s GameState) Status() GameStatus {
	switch {
	case s.GameOver:
		return StatusGameOver
	case s.Won:
		return StatusWon
	default:
		return StatusInProgress
	}
}
