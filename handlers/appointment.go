package handlers

import (
	"net/http"
	"time"

	"claim_flow_app_go/config"
	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type scheduleAppointmentRequest struct {
	AssessmentID string `json:"assessment_id" form:"assessment_id"`
	AssessorID   string `json:"assessor_id" form:"assessor_id"`
	StartTime    string `json:"start_time" form:"start_time"`
	EndTime      string `json:"end_time" form:"end_time"`
	Location     string `json:"location" form:"location"`
	Notes        string `json:"notes" form:"notes"`
}

// ScheduleAppointmentHandler books a site visit for an assessment and
// advances it to appointment_scheduled
func ScheduleAppointmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req scheduleAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if req.AssessmentID == "" || req.AssessorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Assessment and assessor are required")
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time must be RFC 3339")
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_time must be RFC 3339")
	}

	appointment, err := services.ScheduleAppointment(db.DB, actor, services.ScheduleAppointmentInput{
		AssessmentID: req.AssessmentID,
		AssessorID:   req.AssessorID,
		StartTime:    startTime,
		EndTime:      endTime,
		Location:     req.Location,
		Notes:        req.Notes,
	})
	if err != nil {
		c.Logger().Warnf("Scheduling appointment for %s failed: %v", req.AssessmentID, err)
		return httpError(err)
	}

	// Notify the assessor off the request path
	if cfg, ok := c.Get("config").(*config.Config); ok {
		var assessor models.User
		if err := db.DB.First(&assessor, "id = ?", appointment.AssignedToID).Error; err == nil {
			var assessment models.Assessment
			assessmentNumber := ""
			if err := db.DB.First(&assessment, "id = ?", appointment.AssessmentID).Error; err == nil {
				assessmentNumber = assessment.AssessmentNumber
			}
			services.SendEmailAsync(cfg, services.BuildAppointmentScheduledEmail(&assessor, appointment, assessmentNumber))
		}
	}

	return c.JSON(http.StatusCreated, appointment)
}

// GetAppointmentHandler returns one appointment within the actor's scope
func GetAppointmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	appointment, err := services.GetAppointment(db.DB, actor, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appointment)
}

// MyAppointmentsHandler lists the authenticated assessor's upcoming
// site visits for the next 30 days
func MyAppointmentsHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	from := time.Now()
	to := from.AddDate(0, 0, 30)
	appointments, err := services.GetAssessorAppointments(db.DB, actor.ID, from, to)
	if err != nil {
		c.Logger().Errorf("Failed to list appointments for %s: %v", actor.ID, err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appointments)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// CancelAppointmentHandler cancels a site visit. The response reports
// whether the linked assessment's stage fallback succeeded so operators
// can follow up when it did not.
func CancelAppointmentHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req cancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	result, err := services.CancelAppointment(db.DB, actor, c.Param("id"), req.Reason)
	if err != nil {
		return httpError(err)
	}

	if cfg, ok := c.Get("config").(*config.Config); ok {
		var assessor models.User
		if err := db.DB.First(&assessor, "id = ?", result.Appointment.AssignedToID).Error; err == nil {
			services.SendEmailAsync(cfg, services.BuildAppointmentCancelledEmail(&assessor, result.Appointment, req.Reason))
		}
	}

	response := map[string]interface{}{
		"appointment":    result.Appointment,
		"stage_reverted": result.StageReverted,
	}
	if result.RevertErr != nil {
		response["stage_fallback_error"] = "Cancellation succeeded but the assessment stage could not be reverted; manual follow-up required"
	}
	return c.JSON(http.StatusOK, response)
}
