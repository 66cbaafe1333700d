package tui

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// LoadSession restores the game saved in slot, or starts a new one when there
// is no store, the slot is empty, or the save cannot be restored. resumed
// reports whether a save was used. Only an invalid cfg is an error.
func LoadSession(store *storage.Store, slot string, cfg t2048.Config, rng t2048.RandomSource, logger *log.Logger) (session *t2048.Session, resumed bool, err error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := []t2048.Option{t2048.WithLogger(logger)}

	if store != nil {
		snap, loadErr := store.LoadGame(slot)
		switch {
		case loadErr == nil:
			session, err = t2048.RestoreSession(snap, cfg, rng, opts...)
			if err == nil {
				logger.Info("resumed saved game", "slot", slot,
					"score", session.State().Score, "undo", session.Cursor())
				return session, true, nil
			}
			logger.Warn("discarding saved game", "slot", slot, "error", err)
		case !errors.Is(loadErr, storage.ErrNoSave):
			logger.Warn("could not load saved game", "slot", slot, "error", loadErr)
		}
	}

	session, err = t2048.New(cfg, rng, opts...)
	if err != nil {
		return nil, false, err
	}
	return session, false, nil
}

// SaveSession stores the game in slot so it can be resumed. A finished game
// clears the slot instead, so the next start is a fresh game.
func SaveSession(store *storage.Store, slot string, session *t2048.Session) error {
	if session.State().GameOver {
		return store.DeleteGame(slot)
	}
	return store.SaveGame(slot, session.Snapshot())
}
