package api

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/service"
)

// Stream message types.
const (
	MessageEntry  = "entry"
	MessageResult = "result"
	MessageError  = "error"
)

// StreamMessage is one frame sent to a spectator.
type StreamMessage struct {
	Type   string                `json:"type"`
	Entry  *game.LogEntry        `json:"entry,omitempty"`
	Result *service.BattleResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// StreamBattle upgrades to a websocket, reads one battle request and
// streams every log entry followed by the result.
func (h *BattleHandler) StreamBattle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", err, nil)
		return
	}
	defer conn.Close()

	var req service.BattleRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(StreamMessage{Type: MessageError, Error: constants.ErrInvalidRequest})
		return
	}
	if msg, ok := validateBattleRequest(req); !ok {
		_ = conn.WriteJSON(StreamMessage{Type: MessageError, Error: msg})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	// Entries arrive on the battle goroutine, which is the only writer
	// until Run returns.
	observer := func(e game.LogEntry) {
		if ctx.Err() != nil {
			return
		}
		if err := conn.WriteJSON(StreamMessage{Type: MessageEntry, Entry: &e}); err != nil {
			logging.Warn("spectator went away", err, nil)
			cancel()
		}
	}

	res, err := h.runner.Run(ctx, req, observer)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Error("streamed battle failed", err, nil)
			_ = conn.WriteJSON(StreamMessage{Type: MessageError, Error: constants.ErrBattleFailed})
		}
		return
	}
	_ = conn.WriteJSON(StreamMessage{Type: MessageResult, Result: res})
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
