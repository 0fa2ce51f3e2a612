package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/handlers"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Monitors    *handlers.MonitorHandler
	Incidents   *handlers.IncidentHandler
	Events      *handlers.EventHandler
	Channels    *handlers.ChannelHandler
	StatusPages *handlers.StatusPageHandler
	Feeds       *handlers.FeedHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:workspace_id", handlers.WebSocket)

		// Public status page endpoints, resolved by the domain query
		// parameter
		api.GET("/status", h.StatusPages.Overview)
		api.GET("/feed/:type", h.Feeds.Serve)

		workspaces := api.Group("/workspaces/:workspace_id")
		{
			workspaces.GET("/monitors", h.Monitors.List)

			// Incident endpoints
			workspaces.POST("/incidents", h.Incidents.Create)
			workspaces.GET("/incidents", h.Incidents.List)
			workspaces.GET("/incidents/:incident_id", h.Incidents.Get)
			workspaces.PUT("/incidents/:incident_id", h.Incidents.Update)
			workspaces.DELETE("/incidents/:incident_id", h.Incidents.Delete)

			// Report endpoints
			workspaces.POST("/incidents/:incident_id/reports", h.Incidents.AddReport)
			workspaces.PUT("/incidents/:incident_id/reports/:report_id", h.Incidents.UpdateReport)
			workspaces.DELETE("/incidents/:incident_id/reports/:report_id", h.Incidents.DeleteReport)

			// Maintenance event endpoints
			workspaces.POST("/events", h.Events.Create)
			workspaces.GET("/events", h.Events.List)
			workspaces.GET("/events/:event_id", h.Events.Get)
			workspaces.PUT("/events/:event_id", h.Events.Update)
			workspaces.POST("/events/:event_id/complete", h.Events.Complete)
			workspaces.DELETE("/events/:event_id", h.Events.Delete)

			// Notification channel endpoints
			workspaces.POST("/channels", h.Channels.Create)
			workspaces.GET("/channels", h.Channels.List)
			workspaces.PUT("/channels/:channel_id", h.Channels.Update)
			workspaces.DELETE("/channels/:channel_id", h.Channels.Delete)
			workspaces.POST("/channels/test", h.Channels.TestWebhook)

			// Status page endpoints
			workspaces.POST("/status-pages", h.StatusPages.Create)
			workspaces.GET("/status-pages", h.StatusPages.List)
			workspaces.GET("/status-pages/:page_id", h.StatusPages.Get)
			workspaces.GET("/status-pages/:page_id/overview", h.StatusPages.AdminOverview)
			workspaces.PUT("/status-pages/:page_id", h.StatusPages.Update)
			workspaces.DELETE("/status-pages/:page_id", h.StatusPages.Delete)
		}
	}

	return r
}
