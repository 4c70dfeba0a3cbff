package router

import (
	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/http/handler"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler, deals *handler.DealHandler) {
	rg.POST("", h.Create)
	rg.GET("/:workspace_id", h.Get)
	rg.POST("/:workspace_id/members", h.AddMember)

	rg.POST("/:workspace_id/deals", deals.Create)
	rg.GET("/:workspace_id/deals", deals.List)
}
