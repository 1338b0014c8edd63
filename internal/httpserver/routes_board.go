// internal/httpserver/routes_board.go
//
// Leaderboards:
//   - GET /leaderboard?mode=classic|daily&date=YYYY-MM-DD&limit=n
//   - GET /daily/leaderboard?date=YYYY-MM-DD (defaults to today, UTC)

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/gridchase/internal/daily"
	"github.com/robalobadob/gridchase/internal/store"
)

func (s *Server) mountBoards(r chi.Router) {
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/daily/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = daily.DateKey(s.clk.Now())
		}
		s.writeBoard(w, r, store.ModeDaily, date)
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, ok := store.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	s.writeBoard(w, r, mode, r.URL.Query().Get("date"))
}

type boardRes struct {
	Mode store.Mode  `json:"mode"`
	Date string      `json:"date,omitempty"`
	Runs []store.Run `json:"runs"`
}

func (s *Server) writeBoard(w http.ResponseWriter, r *http.Request, mode store.Mode, date string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.runs.TopRuns(r.Context(), mode, date, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(boardRes{Mode: mode, Date: date, Runs: runs})
}
