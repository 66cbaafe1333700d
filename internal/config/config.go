// Package config provides YAML-based configuration loading for 2048 sessions.
package config

import (
	"errors"
	"fmt"
)

// T2048Config contains all configuration for a 2048 session.
type T2048Config struct {
	Board T2048Board `yaml:"board"`
	Rules T2048Rules `yaml:"rules"`
}

// T2048Board defines the board geometry.
type T2048Board struct {
	Size int `yaml:"size"`
}

// T2048Rules defines win and spawn rules.
type T2048Rules struct {
	WinTile               int     `yaml:"win_tile"`
	AllowContinueAfterWin bool    `yaml:"allow_continue_after_win"`
	Spawn4Prob            float64 `yaml:"spawn4_prob"` // Probability a spawned tile is a 4
}

// ErrInvalidConfig reports a configuration that cannot describe a game.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks ranges. Board sizes are capped so the grid stays renderable.
func (c T2048Config) Validate() error {
	if c.Board.Size < 2 || c.Board.Size > 8 {
		return fmt.Errorf("%w: board.size %d outside [2,8]", ErrInvalidConfig, c.Board.Size)
	}
	if w := c.Rules.WinTile; w < 4 || w&(w-1) != 0 {
		return fmt.Errorf("%w: rules.win_tile %d must be a power of two >= 4", ErrInvalidConfig, w)
	}
	if p := c.Rules.Spawn4Prob; p < 0 || p > 1 {
		return fmt.Errorf("%w: rules.spawn4_prob %v outside [0,1]", ErrInvalidConfig, p)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
	}
}
