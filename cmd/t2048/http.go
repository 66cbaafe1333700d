package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/httpapi"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagHTTPAddr string
	flagMaxIdle  time.Duration
	flagNoScores bool
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve 2048 games over a JSON HTTP API",
	Long: `Start an HTTP server hosting 2048 games.

Games live in memory and are dropped after --max-idle without requests.
Finished games are recorded in the scores database unless --no-scores
is set.

Endpoints:
  POST   /games                {"size":4,"winTile":2048,"seed":1}
  GET    /games/{id}
  POST   /games/{id}/move      {"direction":"left"}
  POST   /games/{id}/undo
  POST   /games/{id}/redo
  POST   /games/{id}/new
  GET    /games/{id}/save
  POST   /games/restore        body from /save
  DELETE /games/{id}
  GET    /scores?size=4&limit=10

Examples:
  t2048 http
  t2048 http --addr 127.0.0.1:9000 --max-idle 15m
  t2048 http --seed 42 --no-scores`,
	Args: cobra.NoArgs,
	Run:  runHTTP,
}

func init() {
	httpCmd.Flags().StringVar(&flagHTTPAddr, "addr", ":8080", "HTTP listen address (host:port)")
	httpCmd.Flags().DurationVar(&flagMaxIdle, "max-idle", time.Hour, "Drop games idle this long (0 keeps them)")
	httpCmd.Flags().BoolVar(&flagNoScores, "no-scores", false, "Do not record finished games")
}

func runHTTP(_ *cobra.Command, _ []string) {
	rules, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr, "t2048-http")

	var store *storage.Store
	if !flagNoScores {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open scores database, scores will not be recorded", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	cfg := httpapi.DefaultConfig()
	cfg.Game = rules
	cfg.Seed = flagSeed
	cfg.MaxIdle = flagMaxIdle

	srv, err := httpapi.New(cfg, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, flagHTTPAddr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
