package router

import (
	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/http/handler"
)

func DealRouter(rg *gin.RouterGroup, h *handler.DealHandler) {
	rg.POST("/:deal_id/share", h.Share)
}
