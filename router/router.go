package router

import (
	"time"

	"luckyvista-backend/config"
	"luckyvista-backend/handler"
	"luckyvista-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the constructed handlers the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Feedback *handler.FeedbackHandler
	Admin    *handler.AdminHandler
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppCfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.DatabaseMiddleware())

	// Public routes
	r.GET("/ping", handler.PingHandler)
	r.GET("/health", handler.HealthCheckHandler)
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/signin", h.Auth.Login)
	r.POST("/auth/password-reset", h.Auth.RequestPasswordReset)
	r.POST("/auth/password-reset/confirm", h.Auth.ResetPassword)

	// Authenticated user routes
	feedback := r.Group("/feedback")
	feedback.Use(middleware.AuthMiddleware())
	{
		feedback.POST("", h.Feedback.SubmitFeedback)
		feedback.GET("/my-submissions", h.Feedback.GetMySubmissions)
		feedback.GET("/stats", h.Feedback.GetFeedbackStats)
		feedback.GET("/:id", h.Feedback.GetFeedbackByID)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/metrics", h.Admin.GetPlatformMetrics)
		admin.GET("/sentiment-distribution", h.Admin.GetSentimentDistribution)
		admin.GET("/rating-breakdown", h.Admin.GetRatingBreakdown)
		admin.GET("/trends", h.Admin.GetFeedbackTrends)
		admin.GET("/tenant-comparison", h.Admin.GetTenantComparison)
		admin.GET("/engagement", h.Admin.GetEngagementMetrics)
		admin.GET("/recent-activity", h.Admin.GetRecentActivity)
		admin.GET("/feedback", h.Admin.GetAllFeedback)
		admin.GET("/users", h.Admin.GetAllUsers)
		admin.GET("/audit-logs", h.Admin.QueryAuditLogs)
		admin.GET("/model-info", h.Admin.GetModelInfo)
		admin.POST("/export", h.Admin.ExportFeedback)
	}
}
