package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/domain"
)

func (ctl *ChatWSController) handleJoin(cid domain.ConnectionID, data []byte) {
	var p struct {
		Username string `json:"username"`
		Room     string `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad join payload")
		return
	}
	ctl.Sessions.Join(cid, p.Username, domain.RoomName(p.Room))
}

// handleLeave resolves strictly from the caller's own connection id; any
// payload a client sends along is ignored.
func (ctl *ChatWSController) handleLeave(cid domain.ConnectionID) {
	ctl.Sessions.Leave(cid)
}

func (ctl *ChatWSController) handleMessage(cid domain.ConnectionID, data []byte) {
	if !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("message rate limited")
		return
	}
	var p struct {
		Room    string `json:"room"`
		Author  string `json:"author"`
		Message string `json:"message"`
		Time    string `json:"time"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad message payload")
		return
	}
	ctl.Sessions.Broadcast(cid, domain.RoomName(p.Room), p.Author, p.Message, p.Time)
}

func (ctl *ChatWSController) handlePrivate(cid domain.ConnectionID, data []byte) {
	if !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("private message rate limited")
		return
	}
	var p struct {
		To      string `json:"to"`
		From    string `json:"from"`
		Message string `json:"message"`
		Time    string `json:"time"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad private payload")
		return
	}
	ctl.Sessions.Direct(domain.ConnectionID(p.To), p.From, p.Message, p.Time)
}

func (ctl *ChatWSController) handleFile(cid domain.ConnectionID, data []byte) {
	if !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("file rate limited")
		return
	}
	var p struct {
		Room     string `json:"room"`
		Author   string `json:"author"`
		Filename string `json:"filename"`
		File     string `json:"file"`
		Time     string `json:"time"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad file payload")
		return
	}
	ctl.Sessions.ShareFile(cid, domain.RoomName(p.Room), p.Author, p.Filename, p.File, p.Time)
}

func (ctl *ChatWSController) handleImage(cid domain.ConnectionID, data []byte) {
	if !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("image rate limited")
		return
	}
	var p struct {
		Room      string `json:"room"`
		Author    string `json:"author"`
		ImageURL  string `json:"imageUrl"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("bad image payload")
		return
	}
	ctl.Sessions.ShareImage(cid, domain.RoomName(p.Room), p.Author, p.ImageURL, p.Timestamp)
}
