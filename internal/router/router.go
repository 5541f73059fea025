package router

import (
	"time"

	"aquadesk/internal/config"
	"aquadesk/internal/events"
	"aquadesk/internal/feed"
	"aquadesk/internal/handler"
	"aquadesk/internal/middleware"
	"aquadesk/internal/repository"
	"aquadesk/internal/service"
	"aquadesk/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, publisher events.Publisher, dispatcher *worker.Dispatcher, hub *feed.Hub) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	loc := cfg.Location()

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	riderRepo := repository.NewRiderRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	closingRepo := repository.NewClosingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(customerRepo)
	customerSvc := service.NewCustomerService(customerRepo, ledgerSvc)
	riderSvc := service.NewRiderService(riderRepo)
	orderSvc := service.NewOrderService(orderRepo, ledgerSvc, customerRepo, riderRepo, publisher, loc)
	closingSvc := service.NewClosingService(orderRepo, closingRepo, riderRepo, ledgerSvc, publisher, dispatcher, loc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	ridersH := handler.NewRidersHandler(riderSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	closingsH := handler.NewClosingsHandler(closingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: admin, rider — declared per-endpoint. Riders see and settle
		// orders; everything that touches master data or money aggregates is
		// admin only.
		v1.GET("/orders", middleware.RequireRole("admin", "rider"), ordersH.List)
		v1.GET("/orders/:id", middleware.RequireRole("admin", "rider"), ordersH.Get)
		v1.POST("/orders", middleware.RequireRole("admin"), ordersH.Create)
		v1.POST("/orders/:id/assign", middleware.RequireRole("admin"), ordersH.AssignRider)
		v1.POST("/orders/:id/start", middleware.RequireRole("admin", "rider"), ordersH.StartDelivery)
		v1.POST("/orders/:id/deliver", middleware.RequireRole("admin", "rider"), ordersH.Deliver)
		v1.POST("/orders/:id/complete", middleware.RequireRole("admin"), ordersH.Complete)
		v1.POST("/orders/:id/cancel", middleware.RequireRole("admin"), ordersH.Cancel)

		v1.GET("/customers/:id/balance", middleware.RequireRole("admin", "rider"), customersH.Balance)
		customers := v1.Group("/customers", middleware.RequireRole("admin"))
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Deactivate)
			customers.POST("/:id/reactivate", customersH.Reactivate)
		}

		riders := v1.Group("/riders", middleware.RequireRole("admin"))
		{
			riders.POST("", ridersH.Create)
			riders.GET("", ridersH.List)
			riders.GET("/:id", ridersH.Get)
			riders.PUT("/:id", ridersH.Update)
			riders.DELETE("/:id", ridersH.Deactivate)
			riders.POST("/:id/reactivate", ridersH.Reactivate)
		}

		closings := v1.Group("/closings", middleware.RequireRole("admin"))
		{
			closings.GET("/summary", closingsH.Summary)
			closings.POST("", closingsH.Save)
			closings.GET("", closingsH.List)
		}

		// Live change feed for the console
		v1.GET("/feed", middleware.RequireRole("admin", "rider"), hub.ServeWS)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
