package handlers

import (
	"net/http"
	"strconv"

	"claim_flow_app_go/db"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListAuditLogsHandler returns a filtered, paginated view of the audit
// trail. Admin only.
func ListAuditLogsHandler(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	filters := services.AuditLogFilters{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
		UserID:       c.QueryParam("user_id"),
	}

	logs, total, err := services.GetAuditLogs(db.DB, filters, page, pageSize)
	if err != nil {
		c.Logger().Errorf("Failed to list audit logs: %v", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
