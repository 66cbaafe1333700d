package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagNewGame bool
	flagNoMenu  bool
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start playing 2048. A start menu offers to continue the saved game or
start a new one with a chosen board size and difficulty. An unfinished
game is saved on quit, with its undo history.

Controls:
  Arrows/WASD/HJKL  - Slide
  U/Z/Backspace     - Undo
  Y/Ctrl+R          - Redo
  R                 - Restart
  P/Esc             - Pause
  ?                 - Toggle full help
  Ctrl+S            - Save a screenshot to ~/.t2048/screenshots
  Q/Ctrl+C          - Save and quit

Difficulty options:
  easy    - 1024 wins, fewer 4s spawn
  normal  - 2048 wins, 10% of spawns are 4s
  hard    - 4096 wins, 25% of spawns are 4s

Examples:
  t2048 play
  t2048 play --no-menu
  t2048 play --new --difficulty hard
  t2048 play --config ./five-by-five.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Discard the saved game and start fresh (skips the menu)")
	playCmd.Flags().BoolVar(&flagNoMenu, "no-menu", false, "Skip the start menu and resume or start a game")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen is taken by the game)")
}

func runPlay(_ *cobra.Command, _ []string) {
	rules, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err == nil {
			if f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				defer f.Close()
				logOut = f
			}
		}
	}
	logger := newLogger(logOut, "t2048")

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the game still works, it just is not saved
		store = nil
	}

	if flagNewGame {
		clearSave(store, logger)
	}

	var runErr error
	if flagNewGame || flagNoMenu || !term.IsTerminal(int(os.Stdout.Fd())) {
		runErr = playOnce(store, rules, cfg, logger)
	} else {
		runErr = menuLoop(store, cfg, logger)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// menuLoop shows the start menu until the player quits. Finishing or
// leaving a game returns to the menu.
func menuLoop(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	size := 4
	if rules, err := loadRules(); err == nil {
		size = rules.Size
	}
	difficulty := config.DifficultyPreset(flagDifficulty)

	for {
		saved, hasSave := savedGame(store)
		sel, err := tui.RunMenu(hasSave, saved.Current.Score, size, difficulty, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			return err
		}
		size, difficulty = sel.Size, sel.Difficulty

		switch sel.Choice {
		case tui.MenuNone:
			return nil

		case tui.MenuScores:
			if store == nil {
				logger.Warn("no scores database")
				continue
			}
			if err := tui.RunScoreboard(store, scoreboardSizes, sel.Size, cfg.ScreenW, cfg.ScreenH); err != nil {
				return err
			}

		case tui.MenuContinue:
			rules, err := loadRulesWith(string(sel.Difficulty))
			if err != nil {
				return err
			}
			// The save decides the board size.
			rules.Size = saved.Current.Size
			if err := playOnce(store, rules, cfg, logger); err != nil {
				return err
			}

		case tui.MenuNewGame:
			rules, err := loadRulesWith(string(sel.Difficulty))
			if err != nil {
				return err
			}
			rules.Size = sel.Size
			clearSave(store, logger)
			if err := playOnce(store, rules, cfg, logger); err != nil {
				return err
			}
		}
	}
}

// playOnce resumes the saved game (or starts one) and plays until quit.
func playOnce(store *storage.Store, rules t2048.Config, cfg core.RuntimeConfig, logger *log.Logger) error {
	session, resumed, err := tui.LoadSession(store, storage.DefaultSlot, rules, newRandomSource(), logger)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	logger.Info("session ready", "resumed", resumed, "size", rules.Size, "win_tile", rules.WinTile)

	return tui.Run(t2048.NewGame(session), cfg, tui.Options{
		Store:  store,
		Slot:   storage.DefaultSlot,
		Logger: logger,
	})
}

// savedGame returns the local save, if there is a usable one.
func savedGame(store *storage.Store) (t2048.SessionSnapshot, bool) {
	if store == nil {
		return t2048.SessionSnapshot{}, false
	}
	snap, err := store.LoadGame(storage.DefaultSlot)
	if err != nil {
		return t2048.SessionSnapshot{}, false
	}
	if _, err := snap.Current.GameState(); err != nil {
		return t2048.SessionSnapshot{}, false
	}
	return snap, true
}

func clearSave(store *storage.Store, logger *log.Logger) {
	if store == nil {
		return
	}
	if err := store.DeleteGame(storage.DefaultSlot); err != nil {
		logger.Warn("could not clear saved game", "error", err)
	}
}
