package model

import (
	"time"
)

// Sentiment labels. A feedback row starts Unclassified and moves to one of
// the other three exactly once; it never goes back.
const (
	SentimentUnclassified = "Unclassified"
	SentimentPositive     = "Positive"
	SentimentNegative     = "Negative"
	SentimentNeutral      = "Neutral"
)

// SentimentLabels lists every valid label in stable result order.
var SentimentLabels = []string{
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
	SentimentUnclassified,
}

func IsValidSentiment(label string) bool {
	for _, s := range SentimentLabels {
		if s == label {
			return true
		}
	}
	return false
}

type Feedback struct {
	ID                       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID                   uint      `json:"user_id" gorm:"not null;index"`
	Tenant                   string    `json:"tenant" gorm:"not null;index;size:100"`
	OverallRating            int       `json:"overall_rating" gorm:"not null;check:overall_rating >= 1 AND overall_rating <= 5"`
	ExperienceRating         int       `json:"experience_rating" gorm:"not null;check:experience_rating >= 1 AND experience_rating <= 5"`
	Comments                 string    `json:"comments" gorm:"not null;type:text"`
	FeatureSatisfaction      *int      `json:"feature_satisfaction" gorm:"check:feature_satisfaction IS NULL OR (feature_satisfaction >= 1 AND feature_satisfaction <= 5)"`
	UIRating                 *int      `json:"ui_rating" gorm:"check:ui_rating IS NULL OR (ui_rating >= 1 AND ui_rating <= 5)"`
	RecommendationLikelihood *int      `json:"recommendation_likelihood" gorm:"check:recommendation_likelihood IS NULL OR (recommendation_likelihood >= 1 AND recommendation_likelihood <= 10)"`
	AdditionalSuggestions    *string   `json:"additional_suggestions" gorm:"type:text"`
	SentimentLabel           string    `json:"sentiment_label" gorm:"default:Unclassified;index;size:20"`
	SentimentConfidence      *float64  `json:"sentiment_confidence"`
	CreatedAt                time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Feedback) TableName() string {
	return "feedback"
}

type SubmitFeedbackRequest struct {
	OverallRating            int     `json:"overall_rating"`
	ExperienceRating         int     `json:"experience_rating"`
	Comments                 string  `json:"comments"`
	FeatureSatisfaction      *int    `json:"feature_satisfaction"`
	UIRating                 *int    `json:"ui_rating"`
	RecommendationLikelihood *int    `json:"recommendation_likelihood"`
	AdditionalSuggestions    *string `json:"additional_suggestions"`
}

// FeedbackActivity is a recent-activity row joined with the submitter name.
type FeedbackActivity struct {
	ID             uint      `json:"id"`
	UserName       string    `json:"user_name"`
	OverallRating  int       `json:"rating"`
	SentimentLabel string    `json:"sentiment"`
	Tenant         string    `json:"tenant"`
	CreatedAt      time.Time `json:"created_at"`
}
