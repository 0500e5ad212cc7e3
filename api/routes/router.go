// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"eventure/internal/discounts"
	"eventure/internal/events"
	"eventure/internal/inventory"
	"eventure/internal/notifications"
	"eventure/internal/shared/config"
	"eventure/internal/shared/database"
	"eventure/internal/transactions"
	"eventure/internal/users"
	"eventure/pkg/cache"
	"eventure/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	log       *logger.Logger

	// Wired during SetupRoutes, shared across route groups
	usersRepo          users.Repository
	eventService       events.Service
	discountService    discounts.Service
	transactionService transactions.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Shared repositories first, then route groups in dependency order:
		// transactions need the event and discount services.
		r.usersRepo = users.NewRepository(r.db.GetPostgreSQL())

		r.setupEventRoutes(api)
		r.setupDiscountRoutes(api)
		r.setupTransactionRoutes(api)
	}
}

// TransactionService exposes the wired purchase workflow so the expiry
// sweeper can share it.
func (r *Router) TransactionService() transactions.Service {
	return r.transactionService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "eventure-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "eventure-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedisClient())
	r.eventService = events.NewService(eventRepo, cacheService, r.config.Redis.EventCacheTTL)
	eventController := events.NewController(r.eventService)

	events.SetupEventRoutes(rg, r.config, eventController)
}

// setupDiscountRoutes configures voucher and coupon routes
func (r *Router) setupDiscountRoutes(rg *gin.RouterGroup) {
	discountRepo := discounts.NewRepository(r.db.GetPostgreSQL())
	r.discountService = discounts.NewService(discountRepo, r.usersRepo)
	discountController := discounts.NewController(r.discountService)

	discounts.SetupDiscountRoutes(rg, discountController)
}

// setupTransactionRoutes configures the purchase workflow routes
func (r *Router) setupTransactionRoutes(rg *gin.RouterGroup) {
	transactionRepo := transactions.NewRepository(r.db.GetPostgreSQL())
	ledger := inventory.NewLedger()
	r.transactionService = transactions.NewService(
		r.db.GetPostgreSQL(),
		transactionRepo,
		ledger,
		r.discountService,
		r.eventService,
		r.publisher,
		r.log,
		r.config.Payment.Window,
		r.config.Payment.SweepBatch,
	)
	transactionController := transactions.NewController(r.transactionService, r.config.Upload)

	transactions.SetupTransactionRoutes(rg, r.config, transactionController)
}
