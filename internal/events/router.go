package events

import (
	"eventure/internal/shared/config"
	"eventure/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	events := rg.Group("/events")
	{
		// Public browsing
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEvent)

		// Organizer console
		organizer := events.Group("")
		organizer.Use(middleware.JWTAuth(cfg), middleware.RequireOrganizer())
		{
			organizer.POST("", controller.CreateEvent)
			organizer.GET("/owned", controller.ListOwnedEvents)
			organizer.POST("/:id/ticket-types", controller.AddTicketType)
			organizer.PATCH("/:id/publish", controller.PublishEvent)
			organizer.PATCH("/:id/cancel", controller.CancelEvent)
		}
	}
}
