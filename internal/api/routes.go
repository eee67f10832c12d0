package api

import (
	"github.com/gin-gonic/gin"

	"policeapp/internal/api/handlers"
	"policeapp/internal/api/middleware"
	"policeapp/internal/metrics"
	"policeapp/internal/services"
)

type Router struct {
	authHandler     *handlers.AuthHandler
	locationHandler *handlers.LocationHandler
	reportHandler   *handlers.ReportHandler
	feedbackHandler *handlers.FeedbackHandler
	smsHandler      *handlers.SMSHandler
	adminHandler    *handlers.AdminHandler
	locationService *services.LocationService
}

func NewRouter(
	authHandler *handlers.AuthHandler,
	locationHandler *handlers.LocationHandler,
	reportHandler *handlers.ReportHandler,
	feedbackHandler *handlers.FeedbackHandler,
	smsHandler *handlers.SMSHandler,
	adminHandler *handlers.AdminHandler,
	locationService *services.LocationService,
) *Router {
	return &Router{
		authHandler:     authHandler,
		locationHandler: locationHandler,
		reportHandler:   reportHandler,
		feedbackHandler: feedbackHandler,
		smsHandler:      smsHandler,
		adminHandler:    adminHandler,
		locationService: locationService,
	}
}

func (r *Router) Setup(engine *gin.Engine, auth middleware.Authenticator, adminToken string) {
	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "locations": r.locationService.DatasetSize()})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")

	// Public user endpoints
	users := api.Group("/users")
	{
		users.POST("/signup", r.authHandler.Signup)
		users.POST("/login", r.authHandler.Login)
		users.POST("/check", r.authHandler.Check)
		users.POST("/check2", r.authHandler.CheckEmail)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.Auth(auth))
	{
		protected.GET("/users", r.authHandler.Me)
		protected.GET("/users/email", r.authHandler.Email)
		protected.PUT("/users/update", r.authHandler.UpdateProfile)

		protected.GET("/location/nearest", r.locationHandler.Nearest)
		protected.GET("/location/candidates", r.locationHandler.Candidates)

		protected.POST("/reports", r.reportHandler.Create)
		protected.GET("/reports/nearby", r.reportHandler.Nearby)
		protected.GET("/history", r.reportHandler.History)
		protected.GET("/history/export", r.reportHandler.ExportHistory)

		protected.POST("/feedback", r.feedbackHandler.Submit)
		protected.GET("/feedback", r.feedbackHandler.List)

		protected.POST("/send-sms", r.smsHandler.Send)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminToken(adminToken))
	{
		admin.POST("/dataset/reload", r.adminHandler.ReloadDataset)
	}
}
