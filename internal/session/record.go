package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/internal/store"
)

const saveTimeout = 5 * time.Second

// Recorder returns an OnFinish hook that persists each finished run.
// Failures are logged; gameplay never depends on them.
func Recorder(runs store.Store) func(Result) {
	return func(r Result) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := runs.SaveRun(ctx, r.Run()); err != nil {
			log.Warn().Err(err).Str("session", r.SessionID).Msg("save run")
			return
		}
		log.Info().
			Str("session", r.SessionID).
			Str("mode", string(r.Mode)).
			Int("score", r.Score).
			Int("captures", r.Captures).
			Msg("run recorded")
	}
}
