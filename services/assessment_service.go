package services

import (
	"errors"
	"fmt"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// CreateAssessmentForRequest is the single privileged creation point for
// assessments, invoked when an administrator accepts a claim request. In
// one transaction it marks the request accepted, allocates the assessment
// number, inserts the assessment and advances it to request_accepted. A
// second invocation for the same request fails with ErrDuplicateRequest
// via the unique constraint on request_id; it never silently returns the
// existing record.
func CreateAssessmentForRequest(database *gorm.DB, actor *models.User, requestID string) (*models.Assessment, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var result *models.Assessment
	err := database.Transaction(func(tx *gorm.DB) error {
		var request models.ClaimRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load claim request: %w", err)
		}

		// Fast-fail before the insert; the unique index is authoritative
		var existing int64
		if err := tx.Model(&models.Assessment{}).Where("request_id = ?", request.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateRequest
		}

		if !request.IsPending() {
			return fmt.Errorf("%w: request %s has already been reviewed", ErrPreconditionFailed, request.RequestNumber)
		}

		year := time.Now().Year()
		value, err := NextSequence(tx, SequenceKindAssessment, year)
		if err != nil {
			return err
		}

		assessment := models.Assessment{
			AssessmentNumber:    FormatSequenceNumber(SequenceKindAssessment, year, value),
			RequestID:           request.ID,
			Stage:               models.StageRequestSubmitted,
			CreatedByID:         actor.ID,
			VehicleRegistration: request.VehicleRegistration,
			VehicleMake:         request.VehicleMake,
			VehicleModel:        request.VehicleModel,
		}
		if err := tx.Create(&assessment).Error; err != nil {
			return translateDBError(err)
		}

		err = WriteAudit(tx, ActorContext(actor), models.AuditActionCreate,
			"Assessment", assessment.ID, assessment.AssessmentNumber,
			fmt.Sprintf("Assessment created for request %s", request.RequestNumber),
			nil, map[string]interface{}{"stage": assessment.Stage, "request_id": request.ID})
		if err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}

		// Review bookkeeping on the request
		now := time.Now()
		request.Status = models.RequestStatusAccepted
		request.ReviewedByID = &actor.ID
		request.ReviewedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		advanced, err := advanceStageTx(tx, actor, assessment.ID, models.StageRequestSubmitted, models.StageRequestAccepted)
		if err != nil {
			return err
		}

		result = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindAssessmentByRequest returns the assessment for a request, filtered
// by the actor's access scope. A request with no assessment is a data
// integrity failure surfaced as ErrNotFound, never repaired by creating
// one here.
func FindAssessmentByRequest(database *gorm.DB, actor *models.User, requestID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := ScopedAssessments(database, actor).
		Where("assessments.request_id = ?", requestID).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}
	return &assessment, nil
}

// GetAssessment returns one assessment by ID, filtered by the actor's
// access scope
func GetAssessment(database *gorm.DB, actor *models.User, assessmentID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := ScopedAssessments(database, actor).
		Where("assessments.id = ?", assessmentID).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	return &assessment, nil
}

// LinkAppointment sets the assessment's appointment link. Linking must
// happen before any transition into an appointment-dependent stage. An
// assessment already linked to a live appointment is rejected; a link to
// a cancelled appointment may be replaced, which is how a cancelled site
// visit gets rebooked.
func LinkAppointment(tx *gorm.DB, assessmentID, appointmentID string) error {
	var assessment models.Assessment
	if err := tx.First(&assessment, "id = ?", assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load assessment: %w", err)
	}

	if assessment.AppointmentID != nil && *assessment.AppointmentID != appointmentID {
		var current models.Appointment
		if err := tx.First(&current, "id = ?", *assessment.AppointmentID).Error; err != nil {
			return fmt.Errorf("failed to load linked appointment: %w", err)
		}
		if current.Status != models.AppointmentStatusCancelled {
			return fmt.Errorf("%w: assessment %s is already linked to appointment %s", ErrPreconditionFailed, assessment.AssessmentNumber, current.AppointmentNumber)
		}
	}

	return tx.Model(&models.Assessment{}).
		Where("id = ?", assessmentID).
		Update("appointment_id", appointmentID).Error
}
