package service

import (
	"fmt"
	"strings"
	"time"

	"luckyvista-backend/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FeedbackService owns the feedback submission pipeline and all guarded
// reads over the feedback table.
type FeedbackService struct {
	db         *gorm.DB
	validation *ValidationService
	tenant     *TenantService
	audit      *AuditService
	sentiment  *SentimentService
}

func NewFeedbackService(db *gorm.DB, validation *ValidationService, tenant *TenantService, audit *AuditService, sentiment *SentimentService) *FeedbackService {
	return &FeedbackService{
		db:         db,
		validation: validation,
		tenant:     tenant,
		audit:      audit,
		sentiment:  sentiment,
	}
}

// SubmitFeedback validates and persists one submission, then classifies it
// synchronously. The row is committed with sentiment "Unclassified" first;
// a classification or audit failure never fails the submission.
func (s *FeedbackService) SubmitFeedback(meta RequestMeta, caller Caller, req model.SubmitFeedbackRequest) (*model.Feedback, string, string, error) {
	if caller.UserID == 0 || caller.TenantID == "" {
		return nil, "User not authenticated", "", fmt.Errorf("unauthenticated caller")
	}

	if ok, msg, field := s.validateSubmission(req); !ok {
		return nil, msg, field, fmt.Errorf("validation failed: %s", msg)
	}

	feedback := &model.Feedback{
		UserID:                   caller.UserID,
		Tenant:                   caller.TenantID,
		OverallRating:            req.OverallRating,
		ExperienceRating:         req.ExperienceRating,
		Comments:                 strings.TrimSpace(req.Comments),
		FeatureSatisfaction:      req.FeatureSatisfaction,
		UIRating:                 req.UIRating,
		RecommendationLikelihood: req.RecommendationLikelihood,
		SentimentLabel:           model.SentimentUnclassified,
		CreatedAt:                time.Now().UTC(),
	}
	if req.AdditionalSuggestions != nil {
		trimmed := strings.TrimSpace(*req.AdditionalSuggestions)
		feedback.AdditionalSuggestions = &trimmed
	}

	if err := s.db.Create(feedback).Error; err != nil {
		log.WithError(err).Error("feedback submission failed")
		return nil, "Feedback submission failed", "", fmt.Errorf("failed to create feedback: %v", err)
	}

	s.audit.LogFeedbackSubmission(meta, feedback.ID, caller.UserID, caller.TenantID)
	s.classifyAndStore(feedback)

	return feedback, "", "", nil
}

// classifyAndStore runs the classifier and records the result. On any
// failure the row simply keeps its "Unclassified" label.
func (s *FeedbackService) classifyAndStore(feedback *model.Feedback) {
	label, confidence := s.sentiment.ClassifySentiment(feedback.Comments)

	if err := s.UpdateSentiment(feedback.ID, label, &confidence); err != nil {
		log.WithError(err).Errorf("sentiment update failed for feedback %d", feedback.ID)
		return
	}
	feedback.SentimentLabel = label
	feedback.SentimentConfidence = &confidence
	log.Infof("sentiment analysis completed for feedback %d: %s (%.2f)", feedback.ID, label, confidence)
}

// UpdateSentiment records classifier output for a row. Labels only move
// forward: a classified row is never reset to Unclassified.
func (s *FeedbackService) UpdateSentiment(feedbackID uint, label string, confidence *float64) error {
	if !model.IsValidSentiment(label) {
		return fmt.Errorf("invalid sentiment label %q", label)
	}

	var feedback model.Feedback
	if err := s.db.First(&feedback, feedbackID).Error; err != nil {
		return fmt.Errorf("failed to load feedback %d: %v", feedbackID, err)
	}

	if feedback.SentimentLabel != model.SentimentUnclassified && label == model.SentimentUnclassified {
		return fmt.Errorf("sentiment label cannot revert to Unclassified")
	}

	updates := map[string]interface{}{
		"sentiment_label":      label,
		"sentiment_confidence": confidence,
	}
	if err := s.db.Model(&model.Feedback{}).Where("id = ?", feedbackID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update sentiment: %v", err)
	}
	return nil
}

// GetUserFeedback returns the caller's own submissions, tenant-scoped,
// newest first.
func (s *FeedbackService) GetUserFeedback(caller Caller) ([]model.Feedback, error) {
	if caller.UserID == 0 {
		return []model.Feedback{}, nil
	}

	query := s.db.Where("user_id = ?", caller.UserID)
	if !caller.IsAdmin() {
		if caller.TenantID == "" {
			return []model.Feedback{}, nil
		}
		query = query.Where("tenant = ?", caller.TenantID)
	}

	var items []model.Feedback
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query user feedback: %v", err)
	}
	return items, nil
}

// GetFeedbackByID fetches one row with tenant access validation. A
// cross-tenant attempt is reported as a CRITICAL violation and surfaces to
// the caller as not-found, indistinguishable from a missing row.
func (s *FeedbackService) GetFeedbackByID(meta RequestMeta, caller Caller, feedbackID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := s.db.First(&feedback, feedbackID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %v", err)
	}

	if !s.tenant.CanAccess(caller, feedback.Tenant) {
		s.tenant.ReportViolation(meta, caller, "feedback", feedback.ID, feedback.Tenant)
		return nil, nil
	}
	return &feedback, nil
}

// FeedbackFilters narrows the admin feedback listing. Zero values mean
// "no filter".
type FeedbackFilters struct {
	Sentiment     string
	OverallRating int
	Tenant        string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// GetAllFeedback lists feedback across tenants (admin only). Non-admin
// callers get an empty result rather than an error.
func (s *FeedbackService) GetAllFeedback(caller Caller, filters FeedbackFilters) ([]model.Feedback, error) {
	if !caller.IsAdmin() {
		return []model.Feedback{}, nil
	}

	query := s.db.Model(&model.Feedback{})
	if filters.Sentiment != "" {
		query = query.Where("sentiment_label = ?", filters.Sentiment)
	}
	if filters.OverallRating != 0 {
		query = query.Where("overall_rating = ?", filters.OverallRating)
	}
	if filters.Tenant != "" {
		query = query.Where("tenant = ?", filters.Tenant)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var items []model.Feedback
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query all feedback: %v", err)
	}
	return items, nil
}

// FeedbackStats summarizes a tenant scope for the user-facing stats view.
type FeedbackStats struct {
	TotalFeedback           int64            `json:"total_feedback"`
	AverageOverallRating    float64          `json:"average_overall_rating"`
	AverageExperienceRating float64          `json:"average_experience_rating"`
	SentimentDistribution   map[string]int64 `json:"sentiment_distribution"`
	RatingDistribution      map[int]int64    `json:"rating_distribution"`
}

// GetFeedbackStats computes summary statistics over the caller's scope.
// Internal failures and empty scopes both yield the zero-valued stats.
func (s *FeedbackService) GetFeedbackStats(caller Caller, tenantFilter string) FeedbackStats {
	stats := FeedbackStats{
		SentimentDistribution: map[string]int64{},
		RatingDistribution:    map[int]int64{},
	}

	query := s.tenant.ScopeQuery(caller, tenantFilter, s.db.Model(&model.Feedback{}))

	var items []model.Feedback
	if err := query.Find(&items).Error; err != nil {
		log.WithError(err).Error("failed to get feedback stats")
		return stats
	}
	if len(items) == 0 {
		return stats
	}

	var overallSum, experienceSum int64
	for _, item := range items {
		overallSum += int64(item.OverallRating)
		experienceSum += int64(item.ExperienceRating)
		stats.SentimentDistribution[item.SentimentLabel]++
		stats.RatingDistribution[item.OverallRating]++
	}

	stats.TotalFeedback = int64(len(items))
	stats.AverageOverallRating = round2(float64(overallSum) / float64(len(items)))
	stats.AverageExperienceRating = round2(float64(experienceSum) / float64(len(items)))
	return stats
}

func (s *FeedbackService) validateSubmission(req model.SubmitFeedbackRequest) (bool, string, string) {
	payload := map[string]interface{}{
		"overall_rating":    req.OverallRating,
		"experience_rating": req.ExperienceRating,
		"comments":          strings.TrimSpace(req.Comments),
	}
	if req.FeatureSatisfaction != nil {
		payload["feature_satisfaction"] = *req.FeatureSatisfaction
	}
	if req.UIRating != nil {
		payload["ui_rating"] = *req.UIRating
	}
	if req.RecommendationLikelihood != nil {
		payload["recommendation_likelihood"] = *req.RecommendationLikelihood
	}
	if req.AdditionalSuggestions != nil {
		payload["additional_suggestions"] = strings.TrimSpace(*req.AdditionalSuggestions)
	}
	return s.validation.Validate(payload, FeedbackSchema)
}
