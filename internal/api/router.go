package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/pikabattle/internal/constants"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *BattleHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(constants.RouteHealth, Health)
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteMoves, h.ListMoves)
		apiRoutes.GET(constants.RouteStages, h.ListStages)
		apiRoutes.POST(constants.RouteBattles, h.CreateBattle)
		apiRoutes.GET(constants.RouteBattlesStream, h.StreamBattle)
	}
	return router
}
