package handler

import (
	"net/http"
	"strconv"

	"luckyvista-backend/middleware"
	"luckyvista-backend/model"
	"luckyvista-backend/service"
	"luckyvista-backend/util"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": util.ErrUnauthorized})
		return
	}

	var req model.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}

	feedback, msg, field, err := h.feedbackService.SubmitFeedback(requestMeta(c), caller, req)
	if err != nil {
		util.HandleFieldError(c, http.StatusBadRequest, msg, field)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "feedback submitted",
		"data":    feedback,
	})
}

func (h *FeedbackHandler) GetMySubmissions(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": util.ErrUnauthorized})
		return
	}

	items, err := h.feedbackService.GetUserFeedback(caller)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

func (h *FeedbackHandler) GetFeedbackByID(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": util.ErrUnauthorized})
		return
	}

	feedbackID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	feedback, err := h.feedbackService.GetFeedbackByID(requestMeta(c), caller, uint(feedbackID))
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}
	if feedback == nil {
		// Cross-tenant attempts intentionally look identical to missing rows.
		c.JSON(http.StatusNotFound, gin.H{"error": util.ErrNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": feedback})
}

func (h *FeedbackHandler) GetFeedbackStats(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": util.ErrUnauthorized})
		return
	}

	stats := h.feedbackService.GetFeedbackStats(caller, c.Query("tenant"))
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
