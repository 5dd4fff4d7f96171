package handlers

import (
	"net/http"

	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// maxPhotoSize limits inspection photo uploads to 10 MB
const maxPhotoSize = 10 << 20

// StartInspectionHandler opens (or returns) the inspection attached to
// an assessment. Requires the assessment to be in progress.
func StartInspectionHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	assessmentID := c.Param("id")

	allowed, err := services.CanModifyAssessment(db.DB, actor, assessmentID)
	if err != nil {
		return httpError(err)
	}
	if !allowed {
		return httpError(services.ErrForbidden)
	}

	inspection, err := services.EnsureInspection(db.DB, actor, assessmentID)
	if err != nil {
		c.Logger().Warnf("Starting inspection for %s failed: %v", assessmentID, err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, inspection)
}

// UploadInspectionPhotoHandler attaches a photo to an inspection
func UploadInspectionPhotoHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	inspectionID := c.Param("id")

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Photo file is required")
	}
	if file.Size > maxPhotoSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Photo exceeds the 10 MB limit")
	}

	caption := c.FormValue("caption")

	photo, err := services.AttachInspectionPhoto(c.Request().Context(), db.DB, actor, inspectionID, file, caption)
	if err != nil {
		c.Logger().Errorf("Photo upload for inspection %s failed: %v", inspectionID, err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, photo)
}

type completeInspectionRequest struct {
	Notes string `json:"notes" form:"notes"`
}

// CompleteInspectionHandler marks an inspection as finished
func CompleteInspectionHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req completeInspectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	inspection, err := services.CompleteInspection(db.DB, actor, c.Param("id"), req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, inspection)
}
