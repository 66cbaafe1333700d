package core

// RuntimeConfig carries front-end settings into a game.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Ticks per second, drives animation
	Seed     int64 // RNG seed; 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// Status is what the platform needs to know about a running game.
type Status struct {
	Score    int
	Moves    int
	Won      bool
	GameOver bool
	Paused   bool
}

// StepResult is returned after each tick.
type StepResult struct {
	Status Status
	Moved  bool // A move changed the board this tick
}
