package api

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/service"
)

// BattleRunner runs one battle to completion.
type BattleRunner interface {
	Run(ctx context.Context, req service.BattleRequest, observer engine.Observer) (*service.BattleResult, error)
}

// BattleHandler groups the battle HTTP handlers.
type BattleHandler struct {
	runner   BattleRunner
	upgrader websocket.Upgrader
}

// NewBattleHandler creates a BattleHandler backed by runner.
func NewBattleHandler(runner BattleRunner) *BattleHandler {
	return &BattleHandler{
		runner: runner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}
