// internal/httpserver/server.go
//
// HTTP server wiring for Construction Wordle.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - POST /game/new creates a game and hands back a session token;
//     POST /daily/new does the same with the day's word (routes_daily.go).
//   - Session endpoints: GET/DELETE /game, POST /game/event, POST /game/guess,
//     POST /game/restart, GET /game/ws (live snapshots).
//
// Notes:
//   - The engine ignores malformed input, so rejected events still answer
//     200 with accepted=false and the unchanged state.
//   - Every engine access goes through store.Update/View, which serializes
//     events per store.
//   - State changes are published to the hub inside the Update callback, so
//     subscribers see snapshots in the order events were applied.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/construction-wordle/internal/game"
	"github.com/robalobadob/construction-wordle/internal/hub"
	"github.com/robalobadob/construction-wordle/internal/store"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Vocabulary       []string      // words targets are drawn from (required)
	Picker           game.Picker   // target selection; nil draws uniformly at random
	Secret           string        // HS256 key for session tokens
	SessionTTL       time.Duration // token lifetime; default 24h
	ClientOrigin     string        // CORS origin; default http://localhost:5173
	SecureCookies    bool          // Secure + SameSite=None cookies (production)
	AllowFixedAnswer bool          // honor {"answer":…} in POST /game/new (testing)
	DailySalt        string        // salt for the day's word; default local_dev_salt
	Now              func() time.Time
}

// Server bundles router, game store and WebSocket hub.
type Server struct {
	r     *chi.Mux
	store store.Store
	hub   *hub.Hub
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.Secret == "" {
		opts.Secret = "dev_secret_change_me"
	}
	if opts.DailySalt == "" {
		opts.DailySalt = "local_dev_salt"
	}
	s := &Server{r: chi.NewRouter(), store: st, opts: opts}
	s.hub = hub.New(s.applyEvent, func(origin string) bool { return origin == opts.ClientOrigin })

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "construction-wordle",
			"endpoints": []string{"/health", "POST /game/new", "POST /daily/new", "GET /game", "POST /game/event", "POST /game/guess", "POST /game/restart", "GET /game/ws"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"words": len(s.opts.Vocabulary), "games": s.store.Len()})
	})

	s.r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession())
			r.Get("/", s.handleState)
			r.Delete("/", s.handleDelete)
			r.Post("/event", s.handleEvent)
			r.Post("/guess", s.handleGuess)
			r.Post("/restart", s.handleRestart)
			r.Get("/ws", s.handleWS)
		})
	})
	s.mountDaily(s.r)

	return s
}

// Run drives the WebSocket hub until ctx is canceled. Start calls it; tests
// using Router directly must run it themselves.
func (s *Server) Run(ctx context.Context) { s.hub.Run(ctx) }

// Start serves HTTP on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.Run(ctx)

	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing only)
}
type newGameRes struct {
	GameID    string        `json:"gameId"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	State     game.Snapshot `json:"state"`
}

// stateRes wraps a snapshot with whether the last input was applied.
type stateRes struct {
	Accepted bool          `json:"accepted"`
	State    game.Snapshot `json:"state"`
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// handleNewGame creates a new in-memory game and signs its session token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req) // body is optional

	opts := []game.Option{}
	if s.opts.Picker != nil {
		opts = append(opts, game.WithPicker(s.opts.Picker))
	}
	if req.Answer != "" && s.opts.AllowFixedAnswer {
		opts = append(opts, game.WithTarget(req.Answer))
	}
	g, err := game.New(s.opts.Vocabulary, opts...)
	if errors.Is(err, game.ErrInvalidWord) {
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	res, ok := s.startSession(w, r, g)
	if !ok {
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID()).Msg("game created")
	writeJSON(w, http.StatusOK, res)
}

// startSession stores g and issues its session token and cookie.
// On failure it writes the error response and returns false.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, g *game.Engine) (newGameRes, bool) {
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return newGameRes{}, false
	}
	tok, exp, err := s.signSession(g.ID())
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID()).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return newGameRes{}, false
	}
	s.setSessionCookie(w, tok, exp)
	return newGameRes{GameID: g.ID(), Token: tok, ExpiresAt: exp, State: g.Snapshot()}, true
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.store.View(r.Context(), sessionGameID(r), func(e *game.Engine) error {
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{Accepted: true, State: snap})
}

// handleEvent applies one input event (char/backspace/submit/restart).
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev game.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	snap, changed, err := s.applyEvent(r.Context(), sessionGameID(r), ev)
	if errors.Is(err, game.ErrUnknownEvent) {
		writeError(w, http.StatusBadRequest, "unknown_event")
		return
	}
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{Accepted: changed, State: snap})
}

// handleGuess submits a whole word, for clients without per-slot input.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id := sessionGameID(r)
	var out game.Outcome
	var snap game.Snapshot
	err := s.store.Update(r.Context(), id, func(e *game.Engine) error {
		out = e.ApplyGuess(req.Guess)
		snap = e.Snapshot()
		if out.Accepted {
			s.hub.Publish(id, snap)
		}
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	if out.Accepted && out.Status.Terminal() {
		hlog.FromRequest(r).Info().Str("gameId", id).Str("status", string(out.Status)).Int("attempts", snap.Attempts).Msg("game finished")
	}
	writeJSON(w, http.StatusOK, stateRes{Accepted: out.Accepted, State: snap})
}

// handleRestart starts a fresh game in the same session.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	snap, _, err := s.applyEvent(r.Context(), sessionGameID(r), game.Event{Type: game.EventRestart})
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{Accepted: true, State: snap})
}

// handleDelete drops the game and clears the session cookie.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := sessionGameID(r)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Close(id)
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleWS upgrades to a WebSocket streaming snapshots for the session's game.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := sessionGameID(r)
	if err := s.store.View(r.Context(), id, func(*game.Engine) error { return nil }); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.ServeWS(w, r, id, func(send func(game.Snapshot)) error {
		return s.store.View(r.Context(), id, func(e *game.Engine) error {
			send(e.Snapshot())
			return nil
		})
	})
}

// applyEvent runs ev against the stored game and publishes the new state
// before the game is unlocked. Shared by HTTP and WebSocket input.
func (s *Server) applyEvent(ctx context.Context, id string, ev game.Event) (game.Snapshot, bool, error) {
	var snap game.Snapshot
	var changed bool
	err := s.store.Update(ctx, id, func(e *game.Engine) error {
		var err error
		changed, err = e.Apply(ev)
		snap = e.Snapshot()
		if changed {
			s.hub.Publish(id, snap)
		}
		return err
	})
	return snap, changed, err
}

// storeError maps store failures to HTTP responses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	log.Error().Err(err).Msg("store")
	writeError(w, http.StatusInternalServerError, "store_failed")
}

// ------------------------------- small util --------------------------------

func (s *Server) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
