package service

import (
	"encoding/json"
	"time"

	"luckyvista-backend/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestMeta is the transport context an audit entry records. Handlers
// build it from the request; background callers pass the zero value.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService appends immutable audit entries. Writes are best-effort:
// a failed insert is logged and swallowed so audit logging can never block
// or roll back the operation that triggered it.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// LogEvent appends one entry. userID and tenant may be nil for anonymous
// events (failed sign-ins, pre-registration failures).
func (s *AuditService) LogEvent(meta RequestMeta, eventType string, userID *uint, tenant *string, details map[string]interface{}, severity string) {
	var detailsJSON datatypes.JSON
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.WithError(err).Error("failed to encode audit details")
		} else {
			detailsJSON = datatypes.JSON(data)
		}
	}

	ip := meta.IPAddress
	if ip == "" {
		ip = "unknown"
	}

	entry := model.AuditLog{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Tenant:    tenant,
		IPAddress: ip,
		UserAgent: meta.UserAgent,
		Details:   detailsJSON,
		Severity:  severity,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.WithError(err).Errorf("failed to write audit log for event %s", eventType)
	}
}

func (s *AuditService) LogRegistration(meta RequestMeta, userID uint, tenant string, success bool) {
	eventType := model.EventUserRegistrationSuccess
	severity := model.SeverityInfo
	if !success {
		eventType = model.EventUserRegistrationFailure
		severity = model.SeverityWarning
	}
	details := map[string]interface{}{
		"user_id": userID,
		"tenant":  tenant,
		"success": success,
	}
	s.LogEvent(meta, eventType, &userID, &tenant, details, severity)
}

func (s *AuditService) LogAuthentication(meta RequestMeta, email string, success bool, userID *uint, tenant *string) {
	eventType := model.EventUserSignInSuccess
	severity := model.SeverityInfo
	if !success {
		eventType = model.EventUserSignInFailure
		severity = model.SeverityWarning
	}
	details := map[string]interface{}{
		"email":   email,
		"success": success,
	}
	s.LogEvent(meta, eventType, userID, tenant, details, severity)
}

func (s *AuditService) LogFeedbackSubmission(meta RequestMeta, feedbackID, userID uint, tenant string) {
	details := map[string]interface{}{
		"feedback_id": feedbackID,
	}
	s.LogEvent(meta, model.EventFeedbackSubmission, &userID, &tenant, details, model.SeverityInfo)
}

func (s *AuditService) LogAdminAccess(meta RequestMeta, caller Caller, resource, action string) {
	details := map[string]interface{}{
		"resource": resource,
		"action":   action,
	}
	userID := caller.UserID
	tenant := caller.TenantID
	s.LogEvent(meta, model.EventAdminAccess, &userID, &tenant, details, model.SeverityInfo)
}

func (s *AuditService) LogDataExport(meta RequestMeta, userID uint, tenant string, recordCount int) {
	details := map[string]interface{}{
		"record_count": recordCount,
	}
	s.LogEvent(meta, model.EventDataExport, &userID, &tenant, details, model.SeverityInfo)
}

func (s *AuditService) LogPasswordResetRequest(meta RequestMeta, email string, userID *uint) {
	details := map[string]interface{}{
		"email": email,
	}
	s.LogEvent(meta, model.EventPasswordResetRequest, userID, nil, details, model.SeverityInfo)
}

func (s *AuditService) LogPasswordResetSuccess(meta RequestMeta, userID uint, tenant string) {
	s.LogEvent(meta, model.EventPasswordResetSuccess, &userID, &tenant, nil, model.SeverityInfo)
}

// AuditQueryFilters narrows a log query. Zero values mean "no filter".
type AuditQueryFilters struct {
	EventType string
	UserID    *uint
	Tenant    string
	Severity  string
	StartDate *time.Time
	EndDate   *time.Time
}

// QueryLogs returns matching entries newest-first, capped at limit.
func (s *AuditService) QueryLogs(filters AuditQueryFilters, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := s.db.Model(&model.AuditLog{})
	if filters.EventType != "" {
		query = query.Where("event_type = ?", filters.EventType)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Tenant != "" {
		query = query.Where("tenant = ?", filters.Tenant)
	}
	if filters.Severity != "" {
		query = query.Where("severity = ?", filters.Severity)
	}
	if filters.StartDate != nil {
		query = query.Where("timestamp >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("timestamp <= ?", *filters.EndDate)
	}

	var entries []model.AuditLog
	if err := query.Order("timestamp DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
