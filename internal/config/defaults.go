package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the classic rules: 4x4, 2048 wins, 10% fours.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: T2048Board{
			Size: 4,
		},
		Rules: T2048Rules{
			WinTile:               2048,
			AllowContinueAfterWin: true,
			Spawn4Prob:            0.10,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultT2048YAML
}
