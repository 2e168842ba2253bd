package main

import (
	"fmt"

	"luckyvista-backend/config"
	"luckyvista-backend/handler"
	"luckyvista-backend/router"
	"luckyvista-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(err.Error())
	}
	config.AppCfg.LoadConfig()
}

func main() {
	config.ConnectDatabase()
	defer func() {
		db, _ := config.Db.DB()
		db.Close()
	}()

	validationService := service.NewValidationService()
	auditService := service.NewAuditService(config.Db)
	tenantService := service.NewTenantService(auditService)

	sentimentCache := service.NewSentimentCache(config.AppCfg.RedisAddr, config.AppCfg.RedisPassword)
	sentimentService := service.NewSentimentService(config.AppCfg.ModelPath, config.AppCfg.VectorizerPath, sentimentCache)

	authService := service.NewAuthService(config.Db, validationService)
	feedbackService := service.NewFeedbackService(config.Db, validationService, tenantService, auditService, sentimentService)
	analyticsService := service.NewAnalyticsService(config.Db, tenantService)

	if err := authService.SeedAdminUser(config.AppCfg.AdminEmail, config.AppCfg.AdminPassword); err != nil {
		log.WithError(err).Error("admin seed failed")
	}

	r := gin.Default()
	router.SetupRoutes(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, auditService),
		Feedback: handler.NewFeedbackHandler(feedbackService),
		Admin:    handler.NewAdminHandler(config.Db, analyticsService, feedbackService, auditService, sentimentService),
	})

	log.Infof("starting server on :%s", config.AppCfg.Port)
	if err := r.Run(":" + config.AppCfg.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
