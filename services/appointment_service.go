package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// ScheduleAppointmentInput carries the details for a new site visit
type ScheduleAppointmentInput struct {
	AssessmentID string
	AssessorID   string
	StartTime    time.Time
	EndTime      time.Time
	Location     string
	Notes        string
}

// ScheduleAppointment creates the site-visit appointment for an
// assessment, links it and advances the assessment to
// appointment_scheduled, all in one transaction. Linking happens before
// the transition so the appointment precondition holds when the stage
// changes. An assessment whose appointment was cancelled stays at
// appointment_scheduled, so scheduling from that stage is the rebooking
// path: the new appointment replaces the cancelled link and no stage
// transition is needed.
func ScheduleAppointment(database *gorm.DB, actor *models.User, input ScheduleAppointmentInput) (*models.Appointment, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if input.EndTime.Before(input.StartTime) {
		return nil, fmt.Errorf("%w: appointment ends before it starts", ErrPreconditionFailed)
	}

	var assessor models.User
	if err := database.First(&assessor, "id = ? AND role = ? AND is_active = ?", input.AssessorID, models.RoleAssessor, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assessor not found or inactive", ErrPreconditionFailed)
		}
		return nil, err
	}

	var appointment *models.Appointment
	err := database.Transaction(func(tx *gorm.DB) error {
		var assessment models.Assessment
		if err := tx.First(&assessment, "id = ?", input.AssessmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		rebooking := false
		switch assessment.Stage {
		case models.StageRequestAccepted:
		case models.StageAppointmentScheduled:
			if assessment.AppointmentID == nil {
				return ErrStaleState
			}
			var current models.Appointment
			if err := tx.First(&current, "id = ?", *assessment.AppointmentID).Error; err != nil {
				return fmt.Errorf("failed to load linked appointment: %w", err)
			}
			if current.Status != models.AppointmentStatusCancelled {
				return fmt.Errorf("%w: assessment %s already has appointment %s", ErrPreconditionFailed, assessment.AssessmentNumber, current.AppointmentNumber)
			}
			rebooking = true
		default:
			return ErrStaleState
		}

		year := time.Now().Year()
		value, err := NextSequence(tx, SequenceKindAppointment, year)
		if err != nil {
			return err
		}

		apt := models.Appointment{
			AppointmentNumber: FormatSequenceNumber(SequenceKindAppointment, year, value),
			AssessmentID:      assessment.ID,
			AssignedToID:      assessor.ID,
			StartTime:         input.StartTime,
			EndTime:           input.EndTime,
			Status:            models.AppointmentStatusScheduled,
		}
		if input.Location != "" {
			apt.Location = &input.Location
		}
		if input.Notes != "" {
			apt.Notes = &input.Notes
		}
		if err := tx.Create(&apt).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		if err := LinkAppointment(tx, assessment.ID, apt.ID); err != nil {
			return err
		}

		if !rebooking {
			if _, err := advanceStageTx(tx, actor, assessment.ID, models.StageRequestAccepted, models.StageAppointmentScheduled); err != nil {
				return err
			}
		}

		err = WriteAudit(tx, ActorContext(actor), models.AuditActionCreate,
			"Appointment", apt.ID, apt.AppointmentNumber,
			fmt.Sprintf("Site visit scheduled for assessment %s, assigned to %s", assessment.AssessmentNumber, assessor.Name),
			nil, map[string]interface{}{"start_time": apt.StartTime, "assigned_to": assessor.ID})
		if err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}

		appointment = &apt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// CancellationResult reports the outcome of an appointment cancellation,
// including whether the compensating stage fallback of the linked
// assessment succeeded
type CancellationResult struct {
	Appointment   *models.Appointment `json:"appointment"`
	StageReverted bool                `json:"stage_reverted"`
	RevertErr     error               `json:"-"`
}

// CancelAppointment cancels a site visit and then attempts the
// compensating stage fallback of the linked assessment back to
// appointment_scheduled. The fallback is best-effort: its failure is
// logged and reported in the result for manual follow-up, and never rolls
// back the cancellation itself.
func CancelAppointment(database *gorm.DB, actor *models.User, appointmentID, reason string) (*CancellationResult, error) {
	var appointment models.Appointment
	err := ScopedAppointments(database, actor).
		Where("appointments.id = ?", appointmentID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !appointment.IsCancellable() {
		return nil, fmt.Errorf("%w: appointment %s is %s", ErrPreconditionFailed, appointment.AppointmentNumber, appointment.Status)
	}

	err = database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.AppointmentStatusCancelled,
			"cancelled_at": now,
		}
		if actor != nil {
			updates["cancelled_by_id"] = actor.ID
		}
		if reason != "" {
			updates["cancellation_reason"] = reason
		}

		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status IN ?", appointment.ID, []string{models.AppointmentStatusScheduled, models.AppointmentStatusConfirmed}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleState
		}

		return WriteAudit(tx, ActorContext(actor), models.AuditActionCancel,
			"Appointment", appointment.ID, appointment.AppointmentNumber,
			fmt.Sprintf("Appointment cancelled: %s", reason),
			map[string]interface{}{"status": appointment.Status},
			map[string]interface{}{"status": models.AppointmentStatusCancelled})
	})
	if err != nil {
		return nil, err
	}
	appointment.Status = models.AppointmentStatusCancelled

	result := &CancellationResult{Appointment: &appointment}
	result.StageReverted, result.RevertErr = revertAssessmentStage(database, actor, appointment.AssessmentID)
	if result.RevertErr != nil {
		log.Printf("[WARNING] Appointment %s cancelled but assessment stage fallback failed: %v (manual follow-up required)",
			appointment.AppointmentNumber, result.RevertErr)
	}

	return result, nil
}

// revertAssessmentStage applies the cancellation-triggered fallback: an
// assessment caught mid-visit drops back to appointment_scheduled so the
// visit can be rebooked. An assessment still at appointment_scheduled
// needs no write; later stages are past the site visit and keep their
// stage.
func revertAssessmentStage(database *gorm.DB, actor *models.User, assessmentID string) (bool, error) {
	var assessment models.Assessment
	if err := database.First(&assessment, "id = ?", assessmentID).Error; err != nil {
		return false, err
	}

	if assessment.Stage != models.StageAssessmentInProgress {
		return false, nil
	}

	_, err := AdvanceStage(database, actor, assessment.ID, models.StageAssessmentInProgress, models.StageAppointmentScheduled)
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAppointment returns one appointment within the actor's scope
func GetAppointment(database *gorm.DB, actor *models.User, appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := ScopedAppointments(database, actor).
		Preload("AssignedTo").
		Where("appointments.id = ?", appointmentID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// GetAssessorAppointments fetches upcoming appointments for an assessor
func GetAssessorAppointments(database *gorm.DB, assessorID string, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := database.
		Where("assigned_to_id = ? AND start_time >= ? AND start_time < ?", assessorID, from, to).
		Where("status NOT IN ?", []string{models.AppointmentStatusCancelled}).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}
