// internal/tui/app.go
//
// App plays one local game at a time on a terminal screen.
// Responsibilities:
//   - Own the current session and its snapshot subscription.
//   - Translate key presses into moves, retry and quit.
//   - Redraw on every snapshot; beep when the score goes up.
//
// The session drives the countdown on its own goroutine; the app only reacts.

package tui

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gridchase/internal/game"
	"github.com/robalobadob/gridchase/internal/session"
)

// App is not safe for concurrent use; Run owns it.
type App struct {
	screen    tcell.Screen
	clk       clock.Clock
	onCapture func()

	sess        *session.Session
	snaps       <-chan game.Snapshot
	unsubscribe func()
	last        game.Snapshot
}

// NewApp builds an app drawing on screen. sound may be nil.
func NewApp(screen tcell.Screen, clk clock.Clock, sound *Sound) *App {
	if clk == nil {
		clk = clock.New()
	}
	return &App{screen: screen, clk: clk, onCapture: sound.Capture}
}

// Run starts a game and processes input until quit or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.restart(ctx); err != nil {
		return err
	}
	defer a.stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ctx, ev.Key(), ev.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
				a.draw()
			}
		case snap, open := <-a.snaps:
			if !open {
				a.snaps = nil
				continue
			}
			a.apply(snap)
		}
	}
}

// handleKey reacts to one key press. It reports false when the app should exit.
func (a *App) handleKey(ctx context.Context, key tcell.Key, r rune) bool {
	action, dir := KeyAction(key, r)
	switch action {
	case ActionQuit:
		return false
	case ActionRetry:
		if !a.last.GameOver {
			return true
		}
		if err := a.restart(ctx); err != nil {
			log.Error().Err(err).Msg("retry")
			return false
		}
	case ActionMove:
		out, snap, err := a.sess.Move(ctx, dir)
		if err != nil {
			log.Warn().Err(err).Msg("move")
			return true
		}
		log.Debug().Str("dir", dir.String()).Str("outcome", string(out)).Msg("move")
		a.apply(snap)
	}
	return true
}

// restart tears down the current session, if any, and starts a fresh one.
func (a *App) restart(ctx context.Context) error {
	a.stop()
	a.last = game.Snapshot{}

	sess, err := session.New(uuid.NewString(), a.clk, session.Options{
		Owner: "local",
		Name:  "local",
		OnFinish: func(r session.Result) {
			log.Info().Int("score", r.Score).Int("captures", r.Captures).Msg("game over")
		},
	})
	if err != nil {
		return err
	}
	a.sess = sess
	snaps, unsubscribe, err := a.sess.Subscribe(ctx)
	if err != nil {
		return err
	}
	a.snaps, a.unsubscribe = snaps, unsubscribe
	log.Debug().Str("session", a.sess.ID).Msg("game started")
	return nil
}

func (a *App) stop() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.sess != nil {
		a.sess.Close()
		a.sess = nil
	}
}

func (a *App) apply(snap game.Snapshot) {
	if snap.Moves < a.last.Moves {
		return // stale
	}
	if snap.Captures > a.last.Captures && a.onCapture != nil {
		a.onCapture()
	}
	a.last = snap
	a.draw()
}

func (a *App) draw() {
	if a.last.Cells == nil {
		return
	}
	Draw(a.screen, a.last)
	a.screen.Show()
}
