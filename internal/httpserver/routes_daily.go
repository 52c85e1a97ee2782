// internal/httpserver/routes_daily.go
//
// HTTP route for the "Daily" mode.
//   - POST /daily/new → start a game whose target is the day's word.
//
// The day's word is picked deterministically from date + salt, so every
// player gets the same target on a given UTC date. Play then continues on
// the regular session routes under /game. Nothing is persisted: results and
// leaderboards would need storage, which this server does not keep.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/construction-wordle/internal/daily"
	"github.com/robalobadob/construction-wordle/internal/game"
)

// dailyRes is returned by /daily/new.
type dailyRes struct {
	newGameRes
	Date string `json:"date"`
}

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
	})
}

// handleDailyNew creates a game targeting today's word.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	// the picker reads the clock on every draw, so a restart on a later
	// day moves on to that day's word
	g, err := game.New(s.opts.Vocabulary, game.WithPicker(daily.Picker(s.opts.DailySalt, s.now)))
	if err != nil {
		log.Error().Err(err).Msg("new daily game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	res, ok := s.startSession(w, r, g)
	if !ok {
		return
	}
	date := daily.DateKey(s.now())
	hlog.FromRequest(r).Info().Str("gameId", g.ID()).Str("date", date).Msg("daily game created")
	writeJSON(w, http.StatusOK, dailyRes{newGameRes: res, Date: date})
}
