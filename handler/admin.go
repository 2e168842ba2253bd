package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"luckyvista-backend/middleware"
	"luckyvista-backend/model"
	"luckyvista-backend/service"
	"luckyvista-backend/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db               *gorm.DB
	analyticsService *service.AnalyticsService
	feedbackService  *service.FeedbackService
	auditService     *service.AuditService
	sentimentService *service.SentimentService
}

func NewAdminHandler(db *gorm.DB, analytics *service.AnalyticsService, feedback *service.FeedbackService, audit *service.AuditService, sentiment *service.SentimentService) *AdminHandler {
	return &AdminHandler{
		db:               db,
		analyticsService: analytics,
		feedbackService:  feedback,
		auditService:     audit,
		sentimentService: sentiment,
	}
}

func (h *AdminHandler) GetPlatformMetrics(c *gin.Context) {
	caller := middleware.GetCaller(c)
	metrics := h.analyticsService.GetPlatformMetrics(caller, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "platform_metrics", "read")
	c.JSON(http.StatusOK, gin.H{"data": metrics})
}

func (h *AdminHandler) GetSentimentDistribution(c *gin.Context) {
	caller := middleware.GetCaller(c)
	distribution := h.analyticsService.GetSentimentDistribution(caller, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "sentiment_distribution", "read")
	c.JSON(http.StatusOK, gin.H{"data": distribution})
}

func (h *AdminHandler) GetRatingBreakdown(c *gin.Context) {
	caller := middleware.GetCaller(c)
	breakdown := h.analyticsService.GetRatingBreakdown(caller, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "rating_breakdown", "read")
	c.JSON(http.StatusOK, gin.H{"data": breakdown})
}

func (h *AdminHandler) GetFeedbackTrends(c *gin.Context) {
	caller := middleware.GetCaller(c)

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		days = 30
	}
	granularity := c.DefaultQuery("granularity", "day")

	trends := h.analyticsService.GetFeedbackTrends(caller, days, granularity, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "feedback_trends", "read")
	c.JSON(http.StatusOK, gin.H{"data": trends})
}

func (h *AdminHandler) GetTenantComparison(c *gin.Context) {
	caller := middleware.GetCaller(c)
	comparison := h.analyticsService.GetTenantComparison(caller)
	h.auditService.LogAdminAccess(requestMeta(c), caller, "tenant_comparison", "read")
	c.JSON(http.StatusOK, gin.H{"data": comparison})
}

func (h *AdminHandler) GetEngagementMetrics(c *gin.Context) {
	caller := middleware.GetCaller(c)
	metrics := h.analyticsService.GetUserEngagementMetrics(caller, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "engagement_metrics", "read")
	c.JSON(http.StatusOK, gin.H{"data": metrics})
}

func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	caller := middleware.GetCaller(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	activity := h.analyticsService.GetRecentActivity(caller, limit, c.Query("tenant"))
	h.auditService.LogAdminAccess(requestMeta(c), caller, "recent_activity", "read")
	c.JSON(http.StatusOK, gin.H{"data": activity})
}

func (h *AdminHandler) GetAllFeedback(c *gin.Context) {
	caller := middleware.GetCaller(c)

	filters := service.FeedbackFilters{
		Sentiment: c.Query("sentiment"),
		Tenant:    c.Query("tenant"),
	}
	if rating, err := strconv.Atoi(c.Query("overall_rating")); err == nil {
		filters.OverallRating = rating
	}
	if from, err := time.Parse(time.RFC3339, c.Query("date_from")); err == nil {
		filters.DateFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("date_to")); err == nil {
		filters.DateTo = &to
	}

	items, err := h.feedbackService.GetAllFeedback(caller, filters)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	h.auditService.LogAdminAccess(requestMeta(c), caller, "all_feedback", "read")
	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	caller := middleware.GetCaller(c)

	query := h.db.Model(&model.User{})
	if tenant := c.Query("tenant"); tenant != "" {
		query = query.Where("tenant = ?", tenant)
	}

	var users []model.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	h.auditService.LogAdminAccess(requestMeta(c), caller, "users", "read")
	c.JSON(http.StatusOK, gin.H{"data": responses, "count": len(responses)})
}

func (h *AdminHandler) QueryAuditLogs(c *gin.Context) {
	caller := middleware.GetCaller(c)

	filters := service.AuditQueryFilters{
		EventType: c.Query("event_type"),
		Tenant:    c.Query("tenant"),
		Severity:  c.Query("severity"),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		id := uint(userID)
		filters.UserID = &id
	}
	if start, err := time.Parse(time.RFC3339, c.Query("start_date")); err == nil {
		filters.StartDate = &start
	}
	if end, err := time.Parse(time.RFC3339, c.Query("end_date")); err == nil {
		filters.EndDate = &end
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		limit = 100
	}

	entries, err := h.auditService.QueryLogs(filters, limit)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	h.auditService.LogAdminAccess(requestMeta(c), caller, "audit_logs", "read")
	c.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
}

func (h *AdminHandler) GetModelInfo(c *gin.Context) {
	caller := middleware.GetCaller(c)
	h.auditService.LogAdminAccess(requestMeta(c), caller, "model_info", "read")
	c.JSON(http.StatusOK, gin.H{"data": h.sentimentService.GetModelInfo()})
}

type exportRequest struct {
	Format string `json:"format"`
	Tenant string `json:"tenant"`
}

// ExportFeedback streams the scoped feedback table as CSV and records a
// data_export audit event with the row count.
func (h *AdminHandler) ExportFeedback(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
		return
	}

	items, err := h.feedbackService.GetAllFeedback(caller, service.FeedbackFilters{Tenant: req.Tenant})
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, "Failed to export data", err)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{
		"id", "user_id", "tenant", "overall_rating", "experience_rating",
		"comments", "sentiment_label", "sentiment_confidence", "created_at",
	})
	for _, item := range items {
		confidence := ""
		if item.SentimentConfidence != nil {
			confidence = strconv.FormatFloat(*item.SentimentConfidence, 'f', 2, 64)
		}
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(item.ID), 10),
			strconv.FormatUint(uint64(item.UserID), 10),
			item.Tenant,
			strconv.Itoa(item.OverallRating),
			strconv.Itoa(item.ExperienceRating),
			item.Comments,
			item.SentimentLabel,
			confidence,
			item.CreatedAt.Format(time.RFC3339),
		})
	}
	writer.Flush()

	h.auditService.LogDataExport(requestMeta(c), caller.UserID, caller.TenantID, len(items))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=feedback_export_%s.csv", time.Now().UTC().Format("20060102_150405")))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
