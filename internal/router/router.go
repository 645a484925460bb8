package router

import (
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/handler"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/middleware"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	School       *handler.SchoolHandler
	Student      *handler.StudentHandler
	Dashboard    *handler.DashboardHandler
	Notification *handler.NotificationHandler
	WS           *handler.WSHandler
	Health       *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// A nil authLimiter leaves the auth routes unthrottled.
func SetupRouter(
	tokens *service.TokenService,
	handlers *Handlers,
	authLimiter middleware.Limiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/auth")
	auth.Use(middleware.NoStore())
	{
		public := auth.Group("")
		if authLimiter != nil {
			public.Use(middleware.RateLimit(authLimiter, log))
		}
		public.POST("/login", handlers.Auth.Login)
		public.POST("/register", handlers.Auth.Register)
		public.POST("/refresh", handlers.Auth.Refresh)

		auth.GET("/me", middleware.RequireAuth(tokens), handlers.Auth.Me)
	}

	// ─── 2. Resource Group (Bearer) ────────────────────────────────────
	api := router.Group("/api")
	api.Use(middleware.RequireAuth(tokens), middleware.NoStore())
	{
		api.GET("/schools", handlers.School.ListSchools)
		api.GET("/students", handlers.Student.ListStudents)

		api.GET("/dashboard/super-admin", handlers.Dashboard.SuperAdmin)
		api.GET("/dashboard/school-admin", handlers.Dashboard.SchoolAdmin)

		notifications := api.Group("/notifications")
		{
			notifications.GET("", handlers.Notification.List)
			notifications.GET("/unread-count", handlers.Notification.UnreadCount)
			notifications.PUT("/read-all", handlers.Notification.MarkAllRead)
			notifications.PUT("/:id/read", handlers.Notification.MarkRead)
			notifications.DELETE("/:id", handlers.Notification.Delete)
		}
	}

	// ─── 3. WebSocket Group (Query Token) ──────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.RequireWSAuth(tokens))
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	return router
}
