// main.go
//
// Grid Chase server: serves the browser view, the JSON/websocket game API
// and the leaderboards.

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/assets"
	"github.com/robalobadob/gridchase/internal/config"
	"github.com/robalobadob/gridchase/internal/database"
	"github.com/robalobadob/gridchase/internal/httpserver"
	"github.com/robalobadob/gridchase/internal/session"
	"github.com/robalobadob/gridchase/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	db, runs := openStore(cfg)
	if db != nil {
		defer db.Close()
	}

	clk := clock.New()
	sessions := session.NewManager(clk, cfg.SessionIdleTTL, session.Recorder(runs))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.RunReaper(ctx, time.Minute)

	srv := httpserver.New(cfg, clk, sessions, runs, db)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting gridchase")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	sessions.Shutdown()
}

// openStore opens and migrates the SQLite database. If that fails the
// server keeps running on the in-memory store, without accounts.
func openStore(cfg config.Config) (*sql.DB, store.Store) {
	db, err := database.OpenMigrated(cfg.DBPath, assets.Migrations())
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("database unavailable; using memory store")
		return nil, store.NewMemoryStore()
	}
	return db, store.NewSQLStore(db)
}
