package handlers

import (
	"net/http"
	"strings"
	"time"

	"claim_flow_app_go/config"
	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type submitClaimRequest struct {
	ClaimType           string `json:"claim_type" form:"claim_type"`
	ClaimantName        string `json:"claimant_name" form:"claimant_name"`
	ClaimantEmail       string `json:"claimant_email" form:"claimant_email"`
	ClaimantPhone       string `json:"claimant_phone" form:"claimant_phone"`
	PolicyNumber        string `json:"policy_number" form:"policy_number"`
	VehicleRegistration string `json:"vehicle_registration" form:"vehicle_registration"`
	VehicleMake         string `json:"vehicle_make" form:"vehicle_make"`
	VehicleModel        string `json:"vehicle_model" form:"vehicle_model"`
	IncidentDate        string `json:"incident_date" form:"incident_date"`
	Description         string `json:"description" form:"description"`
}

// SubmitClaimRequestHandler accepts a public damage-claim submission
func SubmitClaimRequestHandler(c echo.Context) error {
	var req submitClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	input := services.SubmitClaimRequestInput{
		ClaimType:           req.ClaimType,
		ClaimantName:        req.ClaimantName,
		ClaimantEmail:       req.ClaimantEmail,
		ClaimantPhone:       req.ClaimantPhone,
		PolicyNumber:        req.PolicyNumber,
		VehicleRegistration: req.VehicleRegistration,
		VehicleMake:         req.VehicleMake,
		VehicleModel:        req.VehicleModel,
		Description:         req.Description,
		IPAddress:           c.RealIP(),
		UserAgent:           c.Request().UserAgent(),
	}

	if strings.TrimSpace(req.IncidentDate) != "" {
		incidentDate, err := time.Parse("2006-01-02", req.IncidentDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Incident date must be YYYY-MM-DD")
		}
		input.IncidentDate = &incidentDate
	}

	if problems := input.Validate(); len(problems) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(problems, "; "))
	}

	request, err := services.SubmitClaimRequest(db.DB, input)
	if err != nil {
		c.Logger().Errorf("Failed to submit claim request: %v", err)
		return httpError(err)
	}

	if cfg, ok := c.Get("config").(*config.Config); ok {
		services.SendEmailAsync(cfg, services.BuildRequestReceivedEmail(request))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"request_number": request.RequestNumber,
		"request_id":     request.ID,
	})
}

// ListClaimRequestsHandler lists submissions, optionally filtered by status
func ListClaimRequestsHandler(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !models.IsValidRequestStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
	}

	requests, err := services.ListClaimRequests(db.DB, status)
	if err != nil {
		c.Logger().Errorf("Failed to list claim requests: %v", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// GetClaimRequestHandler returns one submission
func GetClaimRequestHandler(c echo.Context) error {
	request, err := services.GetClaimRequest(db.DB, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, request)
}

type rejectClaimRequest struct {
	Note string `json:"note" form:"note"`
}

// RejectClaimRequestHandler marks a pending submission as rejected
func RejectClaimRequestHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req rejectClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	request, err := services.RejectClaimRequest(db.DB, actor, c.Param("id"), req.Note)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, request)
}
