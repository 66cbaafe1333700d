package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrNotFound is returned for an unknown or expired game ID.
var ErrNotFound = errors.New("httpapi: game not found")

// game is one hosted session. Its mutex serializes every request touching
// the session; different games never contend.
type game struct {
	mu       sync.Mutex
	session  *t2048.Session
	analysis t2048.MoveAnalysis // Last move, reused between moves
	recorded bool               // Score stored for the current game over
	touched  time.Time
}

// Games is a concurrency-safe registry of hosted sessions keyed by UUID.
type Games struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*game
	now   func() time.Time
}

// NewGames returns an empty registry.
func NewGames() *Games {
	return &Games{
		games: make(map[uuid.UUID]*game),
		now:   time.Now,
	}
}

// Add registers a session and returns its new ID.
func (g *Games) Add(s *t2048.Session) uuid.UUID {
	id := uuid.New()
	g.mu.Lock()
	g.games[id] = &game{session: s, touched: g.now(), recorded: s.State().GameOver}
	g.mu.Unlock()
	return id
}

// With runs fn while holding the game's lock. fn must not retain the game.
func (g *Games) With(id uuid.UUID, fn func(*game) error) error {
	g.mu.RLock()
	entry, ok := g.games[id]
	g.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = g.now()
	return fn(entry)
}

// Remove drops a game. Removing an unknown ID returns ErrNotFound.
func (g *Games) Remove(id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.games[id]; !ok {
		return ErrNotFound
	}
	delete(g.games, id)
	return nil
}

// Len returns the number of hosted games.
func (g *Games) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.games)
}

// Prune drops games idle for longer than maxIdle and returns how many went.
func (g *Games) Prune(maxIdle time.Duration, logger *log.Logger) int {
	cutoff := g.now().Add(-maxIdle)

	g.mu.Lock()
	defer g.mu.Unlock()

	pruned := 0
	for id, entry := range g.games {
		// A game busy with a request is not idle.
		if !entry.mu.TryLock() {
			continue
		}
		idle := entry.touched.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(g.games, id)
			logger.Debug("pruned idle game", "id", id)
			pruned++
		}
	}
	return pruned
}
