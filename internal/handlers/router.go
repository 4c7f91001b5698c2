package handlers

import (
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/config"
	"github.com/cvmfinance/orcr-api/internal/metrics"
	"github.com/cvmfinance/orcr-api/internal/middleware"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires middleware and routes. Every route under /api except
// health and the auth endpoints requires a session.
func NewRouter(h *Handlers, provider auth.Provider, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Index)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", middleware.NewRateLimiter(cfg.LoginRatePerMinute).Handler(), h.Auth.Login)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/me", h.Auth.Me)
		}

		protected := api.Group("")
		protected.Use(middleware.Auth(provider, cfg.IsProduction()))
		{
			protected.GET("/dashboard/stats", h.Dashboard.Stats)

			protected.GET("/applications", h.Application.Index)
			protected.POST("/applications", h.Application.Create)
			protected.PUT("/applications", h.Application.Update)
			protected.GET("/applications/:id", h.Application.Show)
			protected.PUT("/applications/:id", h.Application.Update)
			protected.DELETE("/applications/:id", h.Application.Delete)
			protected.PUT("/applications/:id/status", h.Application.UpdateStatus)

			protected.GET("/receipts", h.Receipt.Index)
			protected.POST("/receipts", h.Receipt.Create)
			protected.GET("/receipts/export", h.Receipt.Export)
			protected.GET("/receipts/:id", h.Receipt.Show)
			protected.GET("/receipts/:id/pdf", h.Receipt.PDF)
			protected.POST("/receipts/:id/void", h.Receipt.Void)

			protected.GET("/settings", h.Settings.Show)
			protected.PUT("/settings", h.Settings.Update)

			// User administration
			admin := protected.Group("/users")
			admin.Use(middleware.RequireCapability(auth.CapManageUsers))
			{
				admin.GET("", h.User.Index)
				admin.POST("", h.User.Create)
				admin.PUT("/:id/deactivate", h.User.Deactivate)
			}
		}
	}

	return router
}
