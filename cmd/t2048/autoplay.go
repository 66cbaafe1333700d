package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagStrategy string
	flagGames    int
	flagMaxMoves int
	flagRecord   bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let a bot play 2048 and print the result",
	Long: `Play whole games without input and print the final boards.

Strategies:
  greedy  - take the move that scores most, then the one leaving most space
  random  - pick any move that changes the board

With --seed the run is reproducible.

Examples:
  t2048 autoplay
  t2048 autoplay --strategy random --games 10 --seed 7
  t2048 autoplay --games 100 --record`,
	Args: cobra.NoArgs,
	Run:  runAutoplay,
}

func init() {
	autoplayCmd.Flags().StringVar(&flagStrategy, "strategy", "greedy", "Move strategy: greedy, random")
	autoplayCmd.Flags().IntVar(&flagGames, "games", 1, "Number of games to play")
	autoplayCmd.Flags().IntVar(&flagMaxMoves, "max-moves", 100000, "Stop a game after this many moves")
	autoplayCmd.Flags().BoolVar(&flagRecord, "record", false, "Record finished games in the scores database")
}

// strategy picks the next direction, or false when nothing moves.
type strategy func(board t2048.Board, rng t2048.RandomSource) (t2048.Direction, bool)

func greedyMove(board t2048.Board, _ t2048.RandomSource) (t2048.Direction, bool) {
	best, bestGain, bestEmpty, found := t2048.DirUp, -1, -1, false
	for _, dir := range t2048.Directions {
		next, gained, changed := t2048.Slide(board, dir)
		if !changed {
			continue
		}
		empty := next.CountEmptyCells()
		if gained > bestGain || (gained == bestGain && empty > bestEmpty) {
			best, bestGain, bestEmpty, found = dir, gained, empty, true
		}
	}
	return best, found
}

func randomMove(board t2048.Board, rng t2048.RandomSource) (t2048.Direction, bool) {
	var options []t2048.Direction
	for _, dir := range t2048.Directions {
		if _, _, changed := t2048.Slide(board, dir); changed {
			options = append(options, dir)
		}
	}
	if len(options) == 0 {
		return 0, false
	}
	return options[rng.Intn(len(options))], true
}

func parseStrategy(name string) (strategy, error) {
	switch name {
	case "greedy":
		return greedyMove, nil
	case "random":
		return randomMove, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want greedy or random)", name)
}

// autoplay plays one game to the end or to maxMoves and returns its final state.
func autoplay(session *t2048.Session, pick strategy, rng t2048.RandomSource, maxMoves int) t2048.GameState {
	for range maxMoves {
		st := session.State()
		if st.GameOver {
			break
		}
		dir, ok := pick(st.Board, rng)
		if !ok || !session.Move(dir) {
			break
		}
	}
	return session.State()
}

func runAutoplay(_ *cobra.Command, _ []string) {
	pick, err := parseStrategy(flagStrategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rules, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// A bot that stops at the win tile is not interesting.
	rules.AllowContinueAfterWin = true

	logger := newLogger(os.Stderr, "t2048-bot")
	rng := newRandomSource()

	var store *storage.Store
	if flagRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	var total, best, wins int
	for i := range flagGames {
		session, err := t2048.New(rules, rng, t2048.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		st := autoplay(session, pick, rng, flagMaxMoves)
		total += st.Score
		best = max(best, st.Score)
		if st.Won {
			wins++
		}

		fmt.Printf("Game %d: score %d, max tile %d, %d moves, %s\n",
			i+1, st.Score, st.Board.MaxTile(), st.MoveCount, st.Status())
		if flagGames == 1 {
			fmt.Println(st.Board)
		}

		if store != nil && st.GameOver {
			if _, err := store.SaveScore(st); err != nil {
				logger.Error("could not record score", "error", err)
			}
		}
	}

	if flagGames > 1 {
		fmt.Println()
		fmt.Printf("%d games: best %d, average %d, %d won\n", flagGames, best, total/flagGames, wins)
	}
}
