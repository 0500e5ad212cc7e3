package transactions

import (
	"eventure/internal/shared/config"
	"eventure/internal/shared/middleware"
	"eventure/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupTransactionRoutes configures the purchase workflow routes. The
// booking endpoint hangs off /events/:id so it lives here with the rest of
// the transaction surface.
func SetupTransactionRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	booking := rg.Group("/events")
	booking.Use(middleware.JWTAuth(cfg))
	{
		booking.POST("/:id/book", controller.CreateBooking)
	}

	transactions := rg.Group("/transactions")
	transactions.Use(middleware.JWTAuth(cfg))
	{
		// Organizer review queue. Registered before /:id so gin resolves
		// the static segment first.
		transactions.GET("/organizer", middleware.RequireOrganizer(), controller.ListOrganizerTransactions)

		transactions.GET("/:id", controller.GetTransaction)
		transactions.POST("/:id/payment-proof", controller.SubmitPaymentProof)
		transactions.PATCH("/:id/cancel", controller.CancelTransaction)
		transactions.PATCH("/:id/accept", middleware.RequireRoles(users.RoleOrganizer, users.RoleAdmin), controller.AcceptTransaction)
		transactions.PATCH("/:id/reject", middleware.RequireRoles(users.RoleOrganizer, users.RoleAdmin), controller.RejectTransaction)
	}

	me := rg.Group("/users")
	me.Use(middleware.JWTAuth(cfg))
	{
		me.GET("/transactions", controller.ListMyTransactions)
	}
}
