// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST   /game/new        → start a session ({"mode":"classic"|"daily"})
//   - GET    /game/{id}       → current snapshot
//   - POST   /game/{id}/move  → {"key":"ArrowUp"}
//   - DELETE /game/{id}       → tear the session down
//
// Retry is POST /game/new again: nothing carries over from the old session.
// Invalid moves answer 200 with outcome "rejected"; they are not errors.
// A daily board is played once: a second daily request while one is live
// returns that session (200), and an abandoned daily still counts.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/gridchase/internal/daily"
	"github.com/robalobadob/gridchase/internal/game"
	"github.com/robalobadob/gridchase/internal/session"
	"github.com/robalobadob/gridchase/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/move", s.handleMove)
		r.Delete("/{id}", s.handleEndGame)
	})
}

type newGameReq struct {
	Mode string `json:"mode"` // "classic" (default) | "daily"
}

type gameRes struct {
	GameID   string        `json:"gameId"`
	Mode     store.Mode    `json:"mode"`
	Date     string        `json:"date"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleNewGame starts a session for the caller. Daily mode is refused if
// the caller already has a daily run recorded for today, and resumes the
// caller's live daily session if there is one.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means classic
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, ok := store.ParseMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	owner, name := s.owner(w, r)
	now := s.clk.Now()
	opts := session.Options{Owner: owner, Name: name, Mode: mode, Date: daily.DateKey(now)}

	if mode == store.ModeDaily {
		played, err := s.runs.PlayedDaily(r.Context(), owner, opts.Date)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("daily check")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeError(w, http.StatusConflict, "daily_already_played")
			return
		}
		opts.Rand = daily.Rand(now, s.cfg.DailySalt)
	}

	sess, resumed, err := s.sessions.Create(opts)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}

	status := http.StatusCreated
	if resumed {
		status = http.StatusOK
		hlog.FromRequest(r).Info().Str("session", sess.ID).Msg("daily resumed")
	} else {
		hlog.FromRequest(r).Info().Str("session", sess.ID).Str("mode", string(mode)).Msg("game started")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Mode: mode, Date: opts.Date, Snapshot: snap})
}

// lookup resolves {id} or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	opts := sess.Options()
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Mode: opts.Mode, Date: opts.Date, Snapshot: snap})
}

// moveReq names a direction key ("ArrowUp", "up", ...).
type moveReq struct {
	Key string `json:"key"`
}

type moveRes struct {
	Outcome  game.Outcome  `json:"outcome"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	outcome, snap, err := applyMove(r.Context(), sess, req)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(moveRes{Outcome: outcome, Snapshot: snap})
}

// applyMove routes a move request to the session. Unknown keys are ignored
// the same way an invalid move is.
func applyMove(ctx context.Context, sess *session.Session, req moveReq) (game.Outcome, game.Snapshot, error) {
	if d, ok := game.ParseKey(req.Key); ok {
		return sess.Move(ctx, d)
	}
	snap, err := sess.Snapshot(ctx)
	return game.OutcomeRejected, snap, err
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// sessionError maps session errors to responses.
func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusGone, "session_closed")
	default:
		writeError(w, http.StatusServiceUnavailable, "timeout")
	}
}
