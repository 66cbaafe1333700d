// Package httpapi hosts 2048 sessions behind a JSON HTTP API.
//
// Routes:
//
//	GET    /health
//	POST   /games                 start a game (optional rule overrides)
//	POST   /games/restore         start a game from a saved snapshot
//	GET    /games/{id}            current state
//	DELETE /games/{id}            drop a game
//	POST   /games/{id}/move       {"direction":"left"}; includes the move analysis
//	POST   /games/{id}/undo
//	POST   /games/{id}/redo
//	POST   /games/{id}/new        restart with the same rules
//	GET    /games/{id}/save       snapshot with history, accepted by /games/restore
//	GET    /scores?size=4&limit=10
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Limits on client-supplied games.
const (
	maxBoardSize = 16
	maxBodyBytes = 1 << 20
)

// Config holds server settings.
type Config struct {
	Game           t2048.Config  // Default rules for new games
	Seed           int64         // Non-zero makes game N use seed Seed+N
	RequestTimeout time.Duration // Per-request handler bound
	MaxIdle        time.Duration // Games idle this long are dropped; 0 keeps them
}

// DefaultConfig returns classic rules and conservative limits.
func DefaultConfig() Config {
	return Config{
		Game:           t2048.DefaultConfig(),
		RequestTimeout: 10 * time.Second,
		MaxIdle:        time.Hour,
	}
}

// Server serves the API. It is safe for concurrent use.
type Server struct {
	r      *chi.Mux
	cfg    Config
	games  *Games
	store  *storage.Store // May be nil; scores are then not recorded
	logger *log.Logger
	seq    atomic.Int64
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, store *storage.Store, logger *log.Logger) (*Server, error) {
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		games:  NewGames(),
		store:  store,
		logger: logger,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(cfg.RequestTimeout))
	s.r.Use(jsonContentType)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" "+r.URL.Path)
	})

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": s.games.Len()})
	})

	s.r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Post("/restore", s.handleRestore)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/move", s.handleMove)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Post("/new", s.handleNewGame)
			r.Get("/save", s.handleSave)
		})
	})
	s.r.Get("/scores", s.handleScores)

	return s, nil
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Games exposes the session registry.
func (s *Server) Games() *Games { return s.games }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle games are pruned in the background when MaxIdle is set.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.cfg.MaxIdle > 0 {
		go s.pruneLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(max(s.cfg.MaxIdle/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.games.Prune(s.cfg.MaxIdle, s.logger); n > 0 {
				s.logger.Info("pruned idle games", "count", n, "remaining", s.games.Len())
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ------------------------------ payloads -----------------------------------

// createReq overrides the server's default rules. Omitted fields keep them.
type createReq struct {
	Size                  *int     `json:"size"`
	WinTile               *int     `json:"winTile"`
	AllowContinueAfterWin *bool    `json:"allowContinueAfterWin"`
	Spawn4Prob            *float64 `json:"spawn4Prob"`
	Seed                  *int64   `json:"seed"`
}

type moveReq struct {
	Direction string `json:"direction"`
}

type stateRes struct {
	ID        string           `json:"id"`
	Board     [][]int          `json:"board"`
	Size      int              `json:"size"`
	Score     int              `json:"score"`
	MoveCount int              `json:"moveCount"`
	MaxTile   int              `json:"maxTile"`
	Won       bool             `json:"won"`
	GameOver  bool             `json:"gameOver"`
	Status    t2048.GameStatus `json:"status"`
	CanUndo   bool             `json:"canUndo"`
	CanRedo   bool             `json:"canRedo"`
}

type analysisRes struct {
	Movements []t2048.TileMovement `json:"movements"`
	Spawned   []int                `json:"spawned"`
	Merged    []int                `json:"merged"`
	MovedTo   []int                `json:"movedTo"`
}

type moveRes struct {
	Moved    bool         `json:"moved"`
	Gained   int          `json:"gained"`
	State    stateRes     `json:"state"`
	Analysis *analysisRes `json:"analysis,omitempty"`
}

type changeRes struct {
	Changed bool     `json:"changed"`
	State   stateRes `json:"state"`
}

type scoreRes struct {
	Score     int       `json:"score"`
	MaxTile   int       `json:"maxTile"`
	Moves     int       `json:"moves"`
	Won       bool      `json:"won"`
	CreatedAt time.Time `json:"createdAt"`
}

func newStateRes(id uuid.UUID, s *t2048.Session) stateRes {
	st := s.State()
	return stateRes{
		ID:        id.String(),
		Board:     st.Board.Rows(),
		Size:      st.Board.Size(),
		Score:     st.Score,
		MoveCount: st.MoveCount,
		MaxTile:   st.Board.MaxTile(),
		Won:       st.Won,
		GameOver:  st.GameOver,
		Status:    st.Status(),
		CanUndo:   s.CanUndo(),
		CanRedo:   s.CanRedo(),
	}
}

func newAnalysisRes(a *t2048.MoveAnalysis) *analysisRes {
	movements := a.Movements
	if movements == nil {
		movements = []t2048.TileMovement{}
	}
	return &analysisRes{
		Movements: movements,
		Spawned:   a.Spawned.Sorted(),
		Merged:    a.Merged.Sorted(),
		MovedTo:   a.MovedTo.Sorted(),
	}
}

// ------------------------------ handlers -----------------------------------

// newSource returns the random source for the next game.
func (s *Server) newSource(seed *int64) t2048.RandomSource {
	n := s.seq.Add(1)
	switch {
	case seed != nil:
		return t2048.NewRandomSource(*seed)
	case s.cfg.Seed != 0:
		return t2048.NewRandomSource(s.cfg.Seed + n)
	default:
		return t2048.NewRandomSource(time.Now().UnixNano() + n)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	cfg := s.cfg.Game
	if req.Size != nil {
		cfg.Size = *req.Size
	}
	if req.WinTile != nil {
		cfg.WinTile = *req.WinTile
	}
	if req.AllowContinueAfterWin != nil {
		cfg.AllowContinueAfterWin = *req.AllowContinueAfterWin
	}
	if req.Spawn4Prob != nil {
		cfg.Spawn4Prob = *req.Spawn4Prob
	}
	if cfg.Size < 2 || cfg.Size > maxBoardSize {
		writeError(w, http.StatusBadRequest, "invalid_config", fmt.Sprintf("size must be in [2,%d]", maxBoardSize))
		return
	}

	session, err := t2048.New(cfg, s.newSource(req.Seed), t2048.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}

	id := s.games.Add(session)
	s.logger.Info("game created", "id", id, "size", cfg.Size, "win_tile", cfg.WinTile)
	writeJSON(w, http.StatusCreated, newStateRes(id, session))
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var snap t2048.SessionSnapshot
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	cfg := s.cfg.Game
	cfg.Size = snap.Current.Size
	if cfg.Size < 2 || cfg.Size > maxBoardSize {
		writeError(w, http.StatusBadRequest, "invalid_save", fmt.Sprintf("size must be in [2,%d]", maxBoardSize))
		return
	}
	session, err := t2048.RestoreSession(snap, cfg, s.newSource(nil), t2048.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_save", err.Error())
		return
	}

	id := s.games.Add(session)
	s.logger.Info("game restored", "id", id, "score", session.State().Score, "undo", session.Cursor())
	writeJSON(w, http.StatusCreated, newStateRes(id, session))
}

// withGame parses the {id} parameter and runs fn under the game's lock,
// translating lookup failures into responses.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID, *game)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "malformed game id")
		return
	}
	err = s.games.With(id, func(g *game) error {
		fn(id, g)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no game "+id.String())
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(id uuid.UUID, g *game) {
		writeJSON(w, http.StatusOK, newStateRes(id, g.session))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err == nil {
		err = s.games.Remove(id)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", chi.URLParam(r, "id"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_direction", err.Error())
		return
	}

	s.withGame(w, r, func(id uuid.UUID, g *game) {
		before := g.session.State()
		moved := g.session.Move(dir)
		after := g.session.State()

		res := moveRes{Moved: moved, State: newStateRes(id, g.session)}
		if moved {
			res.Gained = after.Score - before.Score
			t2048.AnalyzeMove(before.Board, after.Board, dir, &g.analysis)
			res.Analysis = newAnalysisRes(&g.analysis)
		}
		s.recordIfOver(id, g)
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(id uuid.UUID, g *game) {
		changed := g.session.Undo()
		writeJSON(w, http.StatusOK, changeRes{Changed: changed, State: newStateRes(id, g.session)})
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(id uuid.UUID, g *game) {
		changed := g.session.Redo()
		s.recordIfOver(id, g)
		writeJSON(w, http.StatusOK, changeRes{Changed: changed, State: newStateRes(id, g.session)})
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(id uuid.UUID, g *game) {
		g.session.NewGame()
		g.analysis.Reset()
		g.recorded = false
		writeJSON(w, http.StatusOK, newStateRes(id, g.session))
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(_ uuid.UUID, g *game) {
		writeJSON(w, http.StatusOK, g.session.Snapshot())
	})
}

// recordIfOver stores the score the first time a game ends. Undo past the
// end and replaying into it again does not record a second entry.
func (s *Server) recordIfOver(id uuid.UUID, g *game) {
	st := g.session.State()
	if !st.GameOver || g.recorded {
		return
	}
	g.recorded = true
	s.logger.Info("game over", "id", id, "score", st.Score, "max_tile", st.Board.MaxTile())
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveScore(st); err != nil {
		s.logger.Error("could not save score", "id", id, "error", err)
	}
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no_store", "scores are not recorded")
		return
	}

	size, err := queryInt(r, "size", s.cfg.Game.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_size", err.Error())
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_limit", err.Error())
		return
	}

	entries, err := s.store.TopScores(size, limit)
	if err != nil {
		s.logger.Error("could not load scores", "error", err)
		writeError(w, http.StatusInternalServerError, "db_error", "could not load scores")
		return
	}

	out := make([]scoreRes, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreRes{Score: e.Score, MaxTile: e.MaxTile, Moves: e.Moves, Won: e.Won, CreatedAt: e.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------------------- helpers -----------------------------------

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}
