// t2048 plays 2048 in the terminal, over SSH, or over HTTP.
//
// Usage:
//
//	t2048 play               - Play in this terminal (resumes the saved game)
//	t2048 serve              - Start SSH server for remote play
//	t2048 http               - Start the JSON HTTP API
//	t2048 scores             - Show high scores
//	t2048 autoplay           - Let a bot play and print the result
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.t2048/scores.db)
//	--config <path>       - Use a custom rules YAML
//	--difficulty <name>   - Apply a preset: easy, normal, hard
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding tile game for the terminal.

Slide the board in one of four directions; equal neighbours merge and
a new tile appears after every move. Reach the win tile (2048 by default)
and keep going for a high score.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  http      - Start the JSON HTTP API
  scores    - View high scores
  autoplay  - Watch a bot play

Examples:
  t2048 play
  t2048 play --difficulty hard
  t2048 serve --ssh :2222
  t2048 http --addr :8080
  t2048 scores --size 5`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.t2048/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// loadRules resolves the YAML config, applies the --difficulty preset and
// converts the result into session rules.
func loadRules() (t2048.Config, error) {
	return loadRulesWith(flagDifficulty)
}

// loadRulesWith is loadRules with an explicit preset name.
func loadRulesWith(difficulty string) (t2048.Config, error) {
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return t2048.Config{}, err
	}
	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return t2048.Config{}, err
	}
	config.ApplyT2048Preset(&cfg, preset)
	return t2048.SessionConfig(cfg), nil
}

// newLogger builds a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
		Level:           level,
	})
}

// newRandomSource honours --seed, falling back to the clock.
func newRandomSource() t2048.RandomSource {
	if flagSeed != 0 {
		return t2048.NewRandomSource(flagSeed)
	}
	return t2048.NewRandomSource(time.Now().UnixNano())
}
