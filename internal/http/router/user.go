package router

import (
	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("", h.Create)
	rg.GET("/:user_id", h.Get)
}
