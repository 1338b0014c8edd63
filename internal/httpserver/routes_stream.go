// internal/httpserver/routes_stream.go
//
// GET /game/{id}/ws — live view of one session over a websocket.
//   - Server → client: {"type":"snapshot","snapshot":{...}} on connect, after
//     every accepted move and every countdown tick; pings every 25s.
//   - Client → server: {"type":"move","key":"ArrowLeft"}.
// The stream ends when the client disconnects or the session is closed.

package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/gridchase/internal/game"
	"github.com/robalobadob/gridchase/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	maxMessage = 4 << 10
)

type streamIn struct {
	Type string `json:"type"` // "move"
	Key  string `json:"key"`
}

type streamOut struct {
	Type     string        `json:"type"` // "snapshot"
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.cfg.ClientOrigin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	logger := hlog.FromRequest(r).With().Str("session", sess.ID).Logger()

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps, unsubscribe, err := sess.Subscribe(ctx)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"), time.Now().Add(writeWait))
		return
	}
	defer unsubscribe()

	go s.readMoves(ctx, cancel, conn, sess, logger)
	writeSnapshots(ctx, conn, snaps, logger)
}

// readMoves forwards client moves to the session until the connection fails.
func (s *Server) readMoves(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn,
	sess *session.Session, logger zerolog.Logger) {
	defer cancel()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg streamIn
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("read")
			}
			return
		}
		if msg.Type != "move" {
			continue
		}
		// the resulting snapshot reaches the client through the subscription
		if _, _, err := applyMove(ctx, sess, moveReq{Key: msg.Key}); err != nil {
			return
		}
	}
}

// writeSnapshots is the only writer on conn: snapshots and pings.
func writeSnapshots(ctx context.Context, conn *websocket.Conn, snaps <-chan game.Snapshot, logger zerolog.Logger) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-snaps:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteJSON(streamOut{Type: "snapshot", Snapshot: snap}); err != nil {
				logger.Debug().Err(err).Msg("write")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
