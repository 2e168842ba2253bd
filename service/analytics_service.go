package service

import (
	"sort"
	"time"

	"luckyvista-backend/model"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AnalyticsService computes read-only metrics over the feedback table.
// Every method resolves the caller's scope through the tenant guard first
// and absorbs internal failures into documented zero/empty defaults, so a
// dashboard request never surfaces a server error.
type AnalyticsService struct {
	db     *gorm.DB
	tenant *TenantService
}

func NewAnalyticsService(db *gorm.DB, tenant *TenantService) *AnalyticsService {
	return &AnalyticsService{db: db, tenant: tenant}
}

type PlatformMetrics struct {
	TotalUsers              int64   `json:"total_users"`
	TotalFeedback           int64   `json:"total_feedback"`
	AverageOverallRating    float64 `json:"average_overall_rating"`
	AverageExperienceRating float64 `json:"average_experience_rating"`
	PositiveFeedbackCount   int64   `json:"positive_feedback_count"`
	NegativeFeedbackCount   int64   `json:"negative_feedback_count"`
	NeutralFeedbackCount    int64   `json:"neutral_feedback_count"`
	PositiveToNegativeRatio float64 `json:"positive_to_negative_ratio"`
	MostCommonSentiment     string  `json:"most_common_sentiment"`
}

// GetPlatformMetrics computes headline counts and averages for the caller's
// scope. A scope with no feedback returns all-zero metrics, not an error.
func (s *AnalyticsService) GetPlatformMetrics(caller Caller, tenantFilter string) PlatformMetrics {
	metrics := PlatformMetrics{MostCommonSentiment: "None"}

	var totalUsers int64
	if err := s.tenant.ScopeQuery(caller, tenantFilter, s.db.Model(&model.User{})).Count(&totalUsers).Error; err != nil {
		log.WithError(err).Error("failed to count users")
		return metrics
	}
	metrics.TotalUsers = totalUsers

	var totalFeedback int64
	if err := s.scopedFeedback(caller, tenantFilter).Count(&totalFeedback).Error; err != nil {
		log.WithError(err).Error("failed to count feedback")
		return metrics
	}
	if totalFeedback == 0 {
		return metrics
	}
	metrics.TotalFeedback = totalFeedback

	var averages struct {
		AvgOverall    *float64
		AvgExperience *float64
	}
	err := s.scopedFeedback(caller, tenantFilter).
		Select("AVG(overall_rating) as avg_overall, AVG(experience_rating) as avg_experience").
		Scan(&averages).Error
	if err != nil {
		log.WithError(err).Error("failed to calculate rating averages")
		return metrics
	}
	if averages.AvgOverall != nil {
		metrics.AverageOverallRating = round2(*averages.AvgOverall)
	}
	if averages.AvgExperience != nil {
		metrics.AverageExperienceRating = round2(*averages.AvgExperience)
	}

	counts, order, err := s.sentimentCounts(caller, tenantFilter)
	if err != nil {
		log.WithError(err).Error("failed to calculate sentiment counts")
		return metrics
	}
	metrics.PositiveFeedbackCount = counts[model.SentimentPositive]
	metrics.NegativeFeedbackCount = counts[model.SentimentNegative]
	metrics.NeutralFeedbackCount = counts[model.SentimentNeutral]

	if metrics.NegativeFeedbackCount > 0 {
		metrics.PositiveToNegativeRatio = round2(float64(metrics.PositiveFeedbackCount) / float64(metrics.NegativeFeedbackCount))
	} else if metrics.PositiveFeedbackCount > 0 {
		metrics.PositiveToNegativeRatio = float64(metrics.PositiveFeedbackCount)
	}

	// Ties keep the first label in result order.
	var best int64 = -1
	for _, label := range order {
		if counts[label] > best {
			best = counts[label]
			metrics.MostCommonSentiment = label
		}
	}

	return metrics
}

// GetSentimentDistribution returns a dense map over all four labels; labels
// with no rows are present with value 0.
func (s *AnalyticsService) GetSentimentDistribution(caller Caller, tenantFilter string) map[string]int64 {
	distribution := make(map[string]int64, len(model.SentimentLabels))
	for _, label := range model.SentimentLabels {
		distribution[label] = 0
	}

	counts, _, err := s.sentimentCounts(caller, tenantFilter)
	if err != nil {
		log.WithError(err).Error("failed to get sentiment distribution")
		return distribution
	}
	for label, count := range counts {
		distribution[label] = count
	}
	return distribution
}

// GetRatingBreakdown returns dense "N Stars" buckets for ratings 1..5.
func (s *AnalyticsService) GetRatingBreakdown(caller Caller, tenantFilter string) map[string]int64 {
	breakdown := map[string]int64{
		"1 Stars": 0, "2 Stars": 0, "3 Stars": 0, "4 Stars": 0, "5 Stars": 0,
	}

	var rows []struct {
		OverallRating int
		Count         int64
	}
	err := s.scopedFeedback(caller, tenantFilter).
		Select("overall_rating, COUNT(id) as count").
		Group("overall_rating").
		Scan(&rows).Error
	if err != nil {
		log.WithError(err).Error("failed to get rating breakdown")
		return breakdown
	}

	starNames := map[int]string{1: "1 Stars", 2: "2 Stars", 3: "3 Stars", 4: "4 Stars", 5: "5 Stars"}
	for _, row := range rows {
		if name, ok := starNames[row.OverallRating]; ok {
			breakdown[name] = row.Count
		}
	}
	return breakdown
}

type TrendPoint struct {
	Date          string  `json:"date"`
	FeedbackCount int64   `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
}

// GetFeedbackTrends buckets feedback over a lookback window of days
// (clamped to 1-365) at day, week, or month granularity, ascending.
func (s *AnalyticsService) GetFeedbackTrends(caller Caller, days int, granularity, tenantFilter string) []TrendPoint {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	var rows []struct {
		CreatedAt     time.Time
		OverallRating int
	}
	err := s.scopedFeedback(caller, tenantFilter).
		Select("created_at, overall_rating").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Scan(&rows).Error
	if err != nil {
		log.WithError(err).Error("failed to get feedback trends")
		return []TrendPoint{}
	}

	type bucket struct {
		count int64
		sum   int64
	}
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		key := trendBucket(row.CreatedAt.UTC(), granularity)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.sum += int64(row.OverallRating)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trends := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		trends = append(trends, TrendPoint{
			Date:          key,
			FeedbackCount: b.count,
			AverageRating: round2(float64(b.sum) / float64(b.count)),
		})
	}
	return trends
}

// trendBucket truncates a timestamp to its bucket start date. Weeks start
// on Monday.
func trendBucket(t time.Time, granularity string) string {
	switch granularity {
	case "week":
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		t = t.AddDate(0, 0, -(weekday - 1))
	case "month":
		t = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t.Format("2006-01-02")
}

type TenantMetrics struct {
	Tenant        string  `json:"tenant"`
	FeedbackCount int64   `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
	ActiveUsers   int64   `json:"active_users"`
	PositiveCount int64   `json:"positive_count"`
	NegativeCount int64   `json:"negative_count"`
	NeutralCount  int64   `json:"neutral_count"`
}

// GetTenantComparison compares all tenants, sorted by feedback count
// descending. Non-admin callers get an empty slice, never cross-tenant data.
func (s *AnalyticsService) GetTenantComparison(caller Caller) []TenantMetrics {
	if !caller.IsAdmin() {
		return []TenantMetrics{}
	}

	var stats []struct {
		Tenant        string
		FeedbackCount int64
		AvgRating     *float64
		ActiveUsers   int64
	}
	err := s.db.Model(&model.Feedback{}).
		Select("tenant, COUNT(id) as feedback_count, AVG(overall_rating) as avg_rating, COUNT(DISTINCT user_id) as active_users").
		Group("tenant").
		Scan(&stats).Error
	if err != nil {
		log.WithError(err).Error("failed to get tenant comparison")
		return []TenantMetrics{}
	}

	var sentimentRows []struct {
		Tenant         string
		SentimentLabel string
		Count          int64
	}
	err = s.db.Model(&model.Feedback{}).
		Select("tenant, sentiment_label, COUNT(id) as count").
		Group("tenant, sentiment_label").
		Scan(&sentimentRows).Error
	if err != nil {
		log.WithError(err).Error("failed to get tenant sentiment breakdown")
		return []TenantMetrics{}
	}

	sentimentByTenant := make(map[string]map[string]int64)
	for _, row := range sentimentRows {
		if sentimentByTenant[row.Tenant] == nil {
			sentimentByTenant[row.Tenant] = make(map[string]int64)
		}
		sentimentByTenant[row.Tenant][row.SentimentLabel] = row.Count
	}

	comparison := make([]TenantMetrics, 0, len(stats))
	for _, stat := range stats {
		sentiments := sentimentByTenant[stat.Tenant]
		tm := TenantMetrics{
			Tenant:        stat.Tenant,
			FeedbackCount: stat.FeedbackCount,
			ActiveUsers:   stat.ActiveUsers,
			PositiveCount: sentiments[model.SentimentPositive],
			NegativeCount: sentiments[model.SentimentNegative],
			NeutralCount:  sentiments[model.SentimentNeutral],
		}
		if stat.AvgRating != nil {
			tm.AverageRating = round2(*stat.AvgRating)
		}
		comparison = append(comparison, tm)
	}

	sort.SliceStable(comparison, func(i, j int) bool {
		return comparison[i].FeedbackCount > comparison[j].FeedbackCount
	})
	return comparison
}

type EngagementMetrics struct {
	TotalUsers             int64   `json:"total_users"`
	ActiveUsers            int64   `json:"active_users"`
	EngagementRate         float64 `json:"engagement_rate"`
	AverageFeedbackPerUser float64 `json:"average_feedback_per_user"`
}

// GetUserEngagementMetrics relates the registered user population to users
// who have actually submitted feedback.
func (s *AnalyticsService) GetUserEngagementMetrics(caller Caller, tenantFilter string) EngagementMetrics {
	var metrics EngagementMetrics

	if err := s.tenant.ScopeQuery(caller, tenantFilter, s.db.Model(&model.User{})).Count(&metrics.TotalUsers).Error; err != nil {
		log.WithError(err).Error("failed to count users for engagement")
		return EngagementMetrics{}
	}

	var activeUsers int64
	err := s.scopedFeedback(caller, tenantFilter).
		Distinct("user_id").
		Count(&activeUsers).Error
	if err != nil {
		log.WithError(err).Error("failed to count active users")
		return EngagementMetrics{}
	}
	metrics.ActiveUsers = activeUsers

	if metrics.TotalUsers > 0 {
		metrics.EngagementRate = round2(float64(metrics.ActiveUsers) / float64(metrics.TotalUsers) * 100)
	}

	var totalFeedback int64
	if err := s.scopedFeedback(caller, tenantFilter).Count(&totalFeedback).Error; err != nil {
		log.WithError(err).Error("failed to count feedback for engagement")
		return EngagementMetrics{}
	}
	if metrics.ActiveUsers > 0 {
		metrics.AverageFeedbackPerUser = round2(float64(totalFeedback) / float64(metrics.ActiveUsers))
	}

	return metrics
}

// GetRecentActivity returns the newest limit rows joined with the
// submitter's display name.
func (s *AnalyticsService) GetRecentActivity(caller Caller, limit int, tenantFilter string) []model.FeedbackActivity {
	if limit <= 0 {
		limit = 10
	}

	query := s.db.Model(&model.Feedback{}).
		Select("feedback.id, feedback.overall_rating, feedback.sentiment_label, feedback.created_at, feedback.tenant, users.name as user_name").
		Joins("JOIN users ON feedback.user_id = users.id")

	// The join makes the bare tenant column ambiguous, so the scope is
	// applied on the qualified column here instead of through ScopeQuery.
	tenant, all := s.tenant.EffectiveTenant(caller, tenantFilter)
	if !all {
		if tenant == "" {
			return []model.FeedbackActivity{}
		}
		query = query.Where("feedback.tenant = ?", tenant)
	}

	var activity []model.FeedbackActivity
	if err := query.Order("feedback.created_at DESC").Limit(limit).Scan(&activity).Error; err != nil {
		log.WithError(err).Error("failed to get recent activity")
		return []model.FeedbackActivity{}
	}
	if activity == nil {
		activity = []model.FeedbackActivity{}
	}
	return activity
}

func (s *AnalyticsService) scopedFeedback(caller Caller, tenantFilter string) *gorm.DB {
	return s.tenant.ScopeQuery(caller, tenantFilter, s.db.Model(&model.Feedback{}))
}

// sentimentCounts returns per-label counts along with the labels in the
// order the store produced them.
func (s *AnalyticsService) sentimentCounts(caller Caller, tenantFilter string) (map[string]int64, []string, error) {
	var rows []struct {
		SentimentLabel string
		Count          int64
	}
	err := s.scopedFeedback(caller, tenantFilter).
		Select("sentiment_label, COUNT(id) as count").
		Group("sentiment_label").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int64, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		counts[row.SentimentLabel] = row.Count
		order = append(order, row.SentimentLabel)
	}
	return counts, order, nil
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
