package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/service"
)

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// ListMoves returns the move table.
func (h *BattleHandler) ListMoves(c *gin.Context) {
	c.JSON(http.StatusOK, game.Moves())
}

// ListStages returns the stage table.
func (h *BattleHandler) ListStages(c *gin.Context) {
	c.JSON(http.StatusOK, game.Stages())
}

// CreateBattle runs a battle synchronously and returns its result.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	req, msg, ok := bindBattleRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: msg})
		return
	}
	res, err := h.runner.Run(c.Request.Context(), req, nil)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMaxRounds) {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMaxRounds})
			return
		}
		logging.Error("battle failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrBattleFailed})
		return
	}
	c.JSON(http.StatusOK, res)
}
