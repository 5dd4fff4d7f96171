package handlers

import (
	"net/http"

	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// AcceptClaimRequestHandler accepts a pending claim request: it creates
// the assessment for the request and moves it to request_accepted in one
// transaction. Re-submitting for the same request returns 409; callers
// that only want the existing record should use the lookup endpoint.
func AcceptClaimRequestHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	requestID := c.Param("id")

	assessment, err := services.CreateAssessmentForRequest(db.DB, actor, requestID)
	if err != nil {
		c.Logger().Warnf("Accepting request %s failed: %v", requestID, err)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"assessment_id":     assessment.ID,
		"assessment_number": assessment.AssessmentNumber,
		"stage":             assessment.Stage,
	})
}

// FindAssessmentByRequestHandler resolves the assessment belonging to a
// claim request. Strictly a lookup: a request that has not been accepted
// yet yields 404, never a new assessment.
func FindAssessmentByRequestHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	assessment, err := services.FindAssessmentByRequest(db.DB, actor, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}
