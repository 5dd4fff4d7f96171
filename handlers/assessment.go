package handlers

import (
	"net/http"

	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetAssessmentHandler returns one assessment within the actor's scope
func GetAssessmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	assessment, err := services.GetAssessment(db.DB, actor, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}

// StartAssessmentHandler opens the assessment workspace: it moves the
// assessment to assessment_in_progress if it is not there already and
// provisions the default child records. Safe to call repeatedly.
func StartAssessmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	assessmentID := c.Param("id")

	allowed, err := services.CanModifyAssessment(db.DB, actor, assessmentID)
	if err != nil {
		return httpError(err)
	}
	if !allowed {
		return httpError(services.ErrForbidden)
	}

	assessment, err := services.StartAssessment(db.DB, actor, assessmentID)
	if err != nil {
		c.Logger().Warnf("Starting assessment %s failed: %v", assessmentID, err)
		return httpError(err)
	}

	records, err := services.GetDefaultRecords(db.DB, assessment.ID)
	if err != nil {
		c.Logger().Errorf("Failed to load default records for %s: %v", assessment.ID, err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"assessment": assessment,
		"records":    records,
	})
}

type advanceStageRequest struct {
	From string `json:"from" form:"from"`
	To   string `json:"to" form:"to"`
}

// AdvanceStageHandler moves an assessment one step along the pipeline.
// The caller states the stage it believes the assessment is in; a
// mismatch returns 409 so stale screens never overwrite fresher state.
func AdvanceStageHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	assessmentID := c.Param("id")

	var req advanceStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	from := models.Stage(req.From)
	to := models.Stage(req.To)
	if !models.IsValidStage(from) || !models.IsValidStage(to) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown stage")
	}

	allowed, err := services.CanModifyAssessment(db.DB, actor, assessmentID)
	if err != nil {
		return httpError(err)
	}
	if !allowed {
		return httpError(services.ErrForbidden)
	}

	assessment, err := services.AdvanceStage(db.DB, actor, assessmentID, from, to)
	if err != nil {
		c.Logger().Warnf("Stage transition %s -> %s on %s failed: %v", from, to, assessmentID, err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}

type cancelAssessmentRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// CancelAssessmentHandler moves an assessment to the cancelled stage
func CancelAssessmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req cancelAssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	assessment, err := services.CancelAssessment(db.DB, actor, c.Param("id"), req.Reason)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}

// GetAssessmentRecordsHandler returns the child records of an assessment
func GetAssessmentRecordsHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	assessmentID := c.Param("id")

	// Scope check doubles as existence check
	if _, err := services.GetAssessment(db.DB, actor, assessmentID); err != nil {
		return httpError(err)
	}

	records, err := services.GetDefaultRecords(db.DB, assessmentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

// GetAssessmentAuditHandler returns the audit trail for an assessment
func GetAssessmentAuditHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	assessmentID := c.Param("id")

	if _, err := services.GetAssessment(db.DB, actor, assessmentID); err != nil {
		return httpError(err)
	}

	logs, err := services.GetResourceAuditHistory(db.DB, "Assessment", assessmentID)
	if err != nil {
		c.Logger().Errorf("Failed to load audit history for %s: %v", assessmentID, err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
