package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/pikabattle/internal/config"
	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/service"
)

// validateBattleRequest checks fields the runner would reject. Zero
// max_rounds keeps the server default.
func validateBattleRequest(req service.BattleRequest) (string, bool) {
	if req.MaxRounds != 0 && (req.MaxRounds < 1 || req.MaxRounds > config.MaxRoundsLimit) {
		return constants.ErrInvalidMaxRounds, false
	}
	return "", true
}

// bindBattleRequest decodes the JSON body. An empty body is a request
// with every field defaulted.
func bindBattleRequest(c *gin.Context) (service.BattleRequest, string, bool) {
	var req service.BattleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, constants.ErrInvalidRequest, false
		}
	}
	msg, ok := validateBattleRequest(req)
	return req, msg, ok
}
