package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/core"
	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

func (ctl *ChatWSController) writePump(ctx context.Context, c *WsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *ChatWSController) readPump(ctx context.Context, cid domain.ConnectionID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(cid, data)
		}
	}
}

// handleEvent demuxes one inbound envelope. Anything malformed or unknown
// is logged and dropped; a bad client message must never ripple out to
// other connections.
func (ctl *ChatWSController) handleEvent(cid domain.ConnectionID, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad envelope")
		return
	}

	switch env.Event {
	case core.EventJoinRoom:
		ctl.handleJoin(cid, env.Data)
	case core.EventLeaveRoom:
		ctl.handleLeave(cid)
	case core.EventSendMessage:
		ctl.handleMessage(cid, env.Data)
	case core.EventSendPrivate:
		ctl.handlePrivate(cid, env.Data)
	case core.EventSendFile:
		ctl.handleFile(cid, env.Data)
	case core.EventSendImage:
		ctl.handleImage(cid, env.Data)
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}
