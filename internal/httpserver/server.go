// internal/httpserver/server.go
//
// HTTP server wiring for the Grid Chase backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, access log,
//     timeouts, JSON, CORS).
//   - Browser view: "/" and "/static/*" from the embedded assets.
//   - Diagnostics: "/health", "/api".
//   - Game endpoints (optional auth): mounted under /game (routes_game.go).
//   - Leaderboards: /leaderboard, /daily/leaderboard (routes_board.go).
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine (auth.go).
//
// Notes:
//   - The websocket route is mounted outside the timeout middleware; a game
//     stream lives for the whole session.
//   - Accounts need a database; with db == nil the auth routes answer 503
//     and everybody plays as a guest.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/assets"
	"github.com/robalobadob/gridchase/internal/config"
	"github.com/robalobadob/gridchase/internal/session"
	"github.com/robalobadob/gridchase/internal/store"
)

// Server bundles router, live sessions, run store and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	clk      clock.Clock
	sessions *session.Manager
	runs     store.Store
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, clk clock.Clock, sessions *session.Manager, runs store.Store, db *sql.DB) *Server {
	if clk == nil {
		clk = clock.New()
	}
	s := &Server{r: chi.NewRouter(), cfg: cfg, clk: clk, sessions: sessions, runs: runs, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped zerolog logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// --- browser view ---
	web := assets.Web()
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		serveIndex(w, web)
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web))))

	// --- live stream (no timeout) ---
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/ws", s.handleStream)

	// --- JSON API ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.sessions.Len()})
		})
		r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"gridchase","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/{id}/move","DELETE /game/{id}","/game/{id}/ws","/leaderboard","/daily/leaderboard","/auth/*"]}`))
		})

		// Game endpoints — OPTIONAL AUTH (guests can play)
		s.mountGame(r.With(s.withOptionalAuth()))

		// Leaderboards — public
		s.mountBoards(r)

		// Auth + profile/stats
		s.mountAuthRoutes(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request through the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
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

// ------------------------------- helpers -----------------------------------

// writeError writes {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// serveIndex writes the embedded page.
func serveIndex(w http.ResponseWriter, web fs.FS) {
	b, err := fs.ReadFile(web, "index.html")
	if err != nil {
		http.Error(w, "index missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}
