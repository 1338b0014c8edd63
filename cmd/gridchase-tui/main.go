// cmd/gridchase-tui/main.go
//
// Grid Chase in the terminal: one local game on the real clock.
// Keys: arrows or hjkl move, r retries after time is up, q or Esc quits.
// Set GRIDCHASE_LOG to a file path to keep a debug log; the terminal itself
// is the screen.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/internal/tui"
)

func main() {
	_ = godotenv.Load()

	logOut := io.Discard
	if path := os.Getenv("GRIDCHASE_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(logOut).With().Timestamp().Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	sound := tui.NewSound()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = tui.NewApp(screen, clock.New(), sound).Run(ctx)
	stop()
	sound.Close()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridchase: %v\n", err)
		os.Exit(1)
	}
}
