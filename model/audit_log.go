package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit severities.
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityError    = "ERROR"
	SeverityCritical = "CRITICAL"
)

// Well-known audit event types. The event_type column is an open set of
// string tags; new event types do not require schema or model changes.
const (
	EventUserRegistrationSuccess = "user_registration_success"
	EventUserRegistrationFailure = "user_registration_failure"
	EventUserSignInSuccess       = "user_signin_success"
	EventUserSignInFailure       = "user_signin_failure"
	EventFeedbackSubmission      = "feedback_submission"
	EventAdminAccess             = "admin_access"
	EventDataExport              = "data_export"
	EventPasswordResetRequest    = "password_reset_request"
	EventPasswordResetSuccess    = "password_reset_success"
	EventUnauthorizedAccess      = "security_violation_unauthorized_access_attempt"
)

// AuditLog rows are append-only: never updated or deleted after creation.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time      `json:"timestamp" gorm:"not null;index"`
	EventType string         `json:"event_type" gorm:"not null;index;size:64"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	Tenant    *string        `json:"tenant" gorm:"index;size:100"`
	IPAddress string         `json:"ip_address" gorm:"not null;size:45"`
	UserAgent string         `json:"user_agent" gorm:"type:text"`
	Details   datatypes.JSON `json:"details"`
	Severity  string         `json:"severity" gorm:"not null;size:20"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
