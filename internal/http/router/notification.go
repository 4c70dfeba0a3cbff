package router

import (
	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/http/handler"
)

func NotificationRouter(rg *gin.RouterGroup, h *handler.NotificationHandler) {
	rg.GET("", h.Drain)
	rg.GET("/pending", h.Pending)
}
