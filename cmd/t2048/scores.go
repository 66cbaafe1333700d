package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresSize  int
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

// scoreboardSizes are the board sizes offered as scoreboard tabs.
var scoreboardSizes = []int{3, 4, 5, 6}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores for a board size.

In a terminal an interactive scoreboard opens; switch board sizes with
Left/Right or Tab/Shift+Tab. Use --plain (or pipe the output) for a text listing.

Examples:
  t2048 scores
  t2048 scores --size 5 --plain
  t2048 scores --size 3 --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresSize, "size", 4, "Board size")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to list")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print a text listing instead of the interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores for the board size")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(flagScoresSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared %dx%d scores.\n", flagScoresSize, flagScoresSize)
		return
	}

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, scoreboardSizes, flagScoresSize, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	printScores(store, flagScoresSize, flagScoresLimit)
}

// printScores writes a plain-text listing.
func printScores(store *storage.Store, size, limit int) {
	scores, err := store.TopScores(size, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %dx%d\n", size, size)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-3s  %s\n", "Rank", "Score", "Max", "Moves", "Won", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-3s  %s\n", "----", "-----", "---", "-----", "---", "----")

	for i, e := range scores {
		won := ""
		if e.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-3s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, won, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(size)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Won: %d  Best tile: %d  Average: %.0f\n",
			stats.HighScore, stats.GamesCount, stats.Wins, stats.BestTile, stats.AvgScore)
	}
}
