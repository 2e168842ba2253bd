package service

import (
	"luckyvista-backend/model"

	"gorm.io/gorm"
)

// Caller is the resolved, immutable identity a request acts as. It is built
// once by the auth middleware from token claims and passed explicitly into
// every guarded call; the core never reads ambient session state.
type Caller struct {
	UserID   uint
	TenantID string
	Role     string
}

func (c Caller) IsAdmin() bool {
	return c.Role == model.RoleSuperAdmin
}

// TenantService enforces the tenant boundary. It holds no state of its own
// beyond the audit sink used to report violations.
type TenantService struct {
	audit *AuditService
}

func NewTenantService(audit *AuditService) *TenantService {
	return &TenantService{audit: audit}
}

// EffectiveTenant resolves the tenant scope for caller. For admins the
// requested filter is honored as an optional narrowing; an empty filter
// means all tenants. Non-admins are always pinned to their own tenant, and
// a non-admin without a tenant gets no scope at all (fail closed).
func (s *TenantService) EffectiveTenant(caller Caller, requested string) (tenant string, all bool) {
	if caller.IsAdmin() {
		if requested != "" {
			return requested, false
		}
		return "", true
	}
	if caller.TenantID == "" {
		return "", false
	}
	return caller.TenantID, false
}

// CanAccess reports whether caller may touch a resource owned by
// resourceTenant.
func (s *TenantService) CanAccess(caller Caller, resourceTenant string) bool {
	if caller.IsAdmin() {
		return true
	}
	if caller.TenantID == "" {
		return false
	}
	return caller.TenantID == resourceTenant
}

// ScopeQuery applies the caller's tenant scope to a query over a table with
// a tenant column. A non-admin without a tenant gets an always-false
// predicate rather than an unfiltered one.
func (s *TenantService) ScopeQuery(caller Caller, requested string, query *gorm.DB) *gorm.DB {
	tenant, all := s.EffectiveTenant(caller, requested)
	if all {
		return query
	}
	if tenant == "" {
		return query.Where("1 = 0")
	}
	return query.Where("tenant = ?", tenant)
}

// FilterFeedback drops rows outside the caller's scope from an already
// loaded collection.
func (s *TenantService) FilterFeedback(caller Caller, items []model.Feedback) []model.Feedback {
	if caller.IsAdmin() {
		return items
	}
	if caller.TenantID == "" {
		return []model.Feedback{}
	}
	filtered := make([]model.Feedback, 0, len(items))
	for _, item := range items {
		if item.Tenant == caller.TenantID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// ReportViolation records a denied cross-tenant access as a CRITICAL audit
// event so probing is distinguishable from ordinary not-found traffic.
// Exactly one entry is written per denied attempt.
func (s *TenantService) ReportViolation(meta RequestMeta, caller Caller, resourceType string, resourceID uint, resourceTenant string) {
	details := map[string]interface{}{
		"resource_type":   resourceType,
		"resource_id":     resourceID,
		"resource_tenant": resourceTenant,
		"user_tenant":     caller.TenantID,
	}
	userID := caller.UserID
	tenant := caller.TenantID
	s.audit.LogEvent(meta, model.EventUnauthorizedAccess, &userID, &tenant, details, model.SeverityCritical)
}
