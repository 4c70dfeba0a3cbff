package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/http/handler"
	"dealflow.app/hub/internal/hub"
	"dealflow.app/hub/internal/service"
	"dealflow.app/hub/internal/store"
)

type RouterConfig struct {
	IdleTimeout  time.Duration
	PingInterval time.Duration
}

func SetupRoutes(router *gin.Engine, services *service.Services, collab *hub.Hub, stores *store.Stores, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := handler.RequireAuth(services.Identity())

	dealHandler := handler.NewDealHandler(services.Deals(), services.Workspaces(), services.Sharing(), services.Identity(), collab)

	// Share links authenticate with their own token, so this route sits
	// outside the auth middleware and checks credentials itself.
	router.GET("/deals/:deal_id", dealHandler.Get)

	wsHandler := handler.NewWSHandler(collab, services.Workspaces(), cfg.IdleTimeout, cfg.PingInterval)
	router.GET("/ws/:workspace_id", auth, wsHandler.Serve)

	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		userHandler := handler.NewUserHandler(services.Users())
		UserRouter(v1.Group("/users"), userHandler)

		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		WorkspaceRouter(v1.Group("/workspaces"), workspaceHandler, dealHandler)

		DealRouter(v1.Group("/deals"), dealHandler)

		notificationHandler := handler.NewNotificationHandler(stores.Notifications())
		NotificationRouter(v1.Group("/notifications"), notificationHandler)
	}
}
