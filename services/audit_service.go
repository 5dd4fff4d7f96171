package services

import (
	"encoding/json"
	"log"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// ActorContext builds an AuditContext from a user record
func ActorContext(user *models.User) AuditContext {
	if user == nil {
		return AuditContext{}
	}
	return AuditContext{
		UserID:   user.ID,
		UserName: user.Name,
		UserRole: user.Role,
	}
}

// WriteAudit writes one audit entry synchronously on the given transaction.
// Stage transitions and assessment creation use this so the entry commits
// or rolls back together with the change it records.
func WriteAudit(
	tx *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) error {
	entry := buildAuditLog(ctx, action, resourceType, resourceID, resourceName, description, oldValues, newValues)
	return tx.Create(entry).Error
}

// LogAuditEvent creates a new audit log entry asynchronously. Used for
// events where losing an entry on crash is acceptable (submissions,
// logins); never for stage transitions.
func LogAuditEvent(
	database *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) {
	entry := buildAuditLog(ctx, action, resourceType, resourceID, resourceName, description, oldValues, newValues)
	go func() {
		if err := database.Create(entry).Error; err != nil {
			log.Printf("[AUDIT] Failed to create audit log: %v", err)
		}
	}()
}

func buildAuditLog(
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) *models.AuditLog {
	var oldJSON, newJSON string

	if oldValues != nil {
		if bytes, err := json.Marshal(oldValues); err == nil {
			oldJSON = string(bytes)
		}
	}
	if newValues != nil {
		if bytes, err := json.Marshal(newValues); err == nil {
			newJSON = string(bytes)
		}
	}

	return &models.AuditLog{
		UserID:       ptrIfNotEmpty(ctx.UserID),
		UserName:     ctx.UserName,
		UserRole:     ctx.UserRole,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		OldValues:    oldJSON,
		NewValues:    newJSON,
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(database *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := database.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID       string
	ResourceType string
	ResourceID   string
	Action       string
	DateFrom     time.Time
	DateTo       time.Time
}

// GetAuditLogs retrieves paginated audit logs
func GetAuditLogs(database *gorm.DB, filters AuditLogFilters, page, pageSize int) ([]models.AuditLog, int64, error) {
	query := database.Model(&models.AuditLog{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.ResourceID != "" {
		query = query.Where("resource_id = ?", filters.ResourceID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}
