// Package signal is the WebSocket adapter: it owns the upgrade, the
// per-connection pumps, and the demultiplexing of inbound chat events into
// session operations.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/app"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/config"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type ChatWSController struct {
	Sessions *app.Sessions
	Limiter  *RateLimiter
	Cfg      *config.Config
}

func NewChatWSController(sessions *app.Sessions, cfg *config.Config) *ChatWSController {
	return &ChatWSController{
		Sessions: sessions,
		Limiter:  NewRateLimiter(cfg.MsgLimit, cfg.MsgInterval),
		Cfg:      cfg,
	}
}

// WsConn wraps one websocket with a buffered outbound queue. TrySend never
// blocks: when the queue is full the frame is dropped and the dispatcher's
// policy decides what to do about the peer.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and registers the connection. The id is
// minted per socket, never reused, which is what keeps removal idempotent
// across reconnects.
func (ctl *ChatWSController) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	cid := domain.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctl.Sessions.Connect(cid, conn)
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, cid, conn)
		ctl.Sessions.Disconnect(cid)
		ctl.Limiter.Forget(cid)
	}()
}
