package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// AdvanceStage applies one stage transition as a compare-and-swap: the
// write only lands if the stored stage still equals from. A concurrent
// transition (e.g. a double-click racing across two workers) makes the
// swap miss and surfaces ErrStaleState; the caller re-reads and decides.
// Exactly one audit entry is written, in the same transaction as the swap.
func AdvanceStage(database *gorm.DB, actor *models.User, assessmentID string, from, to models.Stage) (*models.Assessment, error) {
	var result *models.Assessment
	err := database.Transaction(func(tx *gorm.DB) error {
		assessment, err := advanceStageTx(tx, actor, assessmentID, from, to)
		if err != nil {
			return err
		}
		result = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// advanceStageTx performs the compare-and-swap on an existing transaction,
// so callers composing a transition with other writes (acceptance,
// scheduling) keep everything atomic.
func advanceStageTx(tx *gorm.DB, actor *models.User, assessmentID string, from, to models.Stage) (*models.Assessment, error) {
	if !models.IsValidStage(from) || !models.IsValidStage(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	var assessment models.Assessment
	if err := tx.First(&assessment, "id = ?", assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	if assessment.Stage != from {
		return nil, ErrStaleState
	}

	// Fast-fail in front of the CHECK constraint that enforces this
	if models.RequiresAppointment(to) && !assessment.HasAppointment() {
		return nil, ErrPreconditionFailed
	}

	now := time.Now()
	updates := map[string]interface{}{
		"stage":            to,
		"stage_changed_at": now,
	}
	if actor != nil {
		updates["stage_changed_by"] = actor.ID
	}

	res := tx.Model(&models.Assessment{}).
		Where("id = ? AND stage = ?", assessmentID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Someone else won the swap between our read and write
		return nil, ErrStaleState
	}

	err := WriteAudit(tx, ActorContext(actor), models.AuditActionStageTransition,
		"Assessment", assessment.ID, assessment.AssessmentNumber,
		fmt.Sprintf("Stage changed from %s to %s", from, to),
		map[string]interface{}{"stage": from},
		map[string]interface{}{"stage": to},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	assessment.Stage = to
	assessment.StageChangedAt = &now
	if actor != nil {
		id := actor.ID
		assessment.StageChangedBy = &id
	}
	return &assessment, nil
}

// StartAssessment moves a scheduled assessment into assessment_in_progress
// and provisions its default child records. Safe to invoke any number of
// times: finding the assessment already in progress performs zero writes
// and returns the current state.
func StartAssessment(database *gorm.DB, actor *models.User, assessmentID string) (*models.Assessment, error) {
	assessment, err := GetAssessment(database, actor, assessmentID)
	if err != nil {
		return nil, err
	}

	switch assessment.Stage {
	case models.StageAssessmentInProgress:
		// Already started (page reload, double click): nothing to do
		return assessment, nil

	case models.StageAppointmentScheduled:
		advanced, err := AdvanceStage(database, actor, assessment.ID, models.StageAppointmentScheduled, models.StageAssessmentInProgress)
		if errors.Is(err, ErrStaleState) {
			// Re-read: a concurrent caller may have started it for us
			current, readErr := GetAssessment(database, actor, assessmentID)
			if readErr != nil {
				return nil, readErr
			}
			if current.Stage == models.StageAssessmentInProgress {
				return current, nil
			}
			return nil, ErrStaleState
		}
		if err != nil {
			return nil, err
		}
		assessment = advanced

	case models.StageRequestSubmitted, models.StageRequestAccepted:
		// No appointment scheduled yet, nothing to own the site visit
		return nil, ErrPreconditionFailed

	default:
		return nil, fmt.Errorf("%w: cannot start assessment from stage %s", ErrInvalidTransition, assessment.Stage)
	}

	// Provisioning failure never rolls back the transition; child records
	// are cheap to re-provision, stage transitions are not.
	if _, err := EnsureDefaultRecords(database, assessment.ID); err != nil {
		log.Printf("[WARNING] Failed to provision default records for assessment %s: %v (retryable independently)", assessment.AssessmentNumber, err)
	}

	return assessment, nil
}

// CancelAssessment side-exits an assessment to the cancelled terminal
// stage from any non-terminal stage.
func CancelAssessment(database *gorm.DB, actor *models.User, assessmentID string, reason string) (*models.Assessment, error) {
	assessment, err := GetAssessment(database, actor, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.IsTerminal() {
		return nil, fmt.Errorf("%w: assessment is already %s", ErrInvalidTransition, assessment.Stage)
	}

	var result *models.Assessment
	err = database.Transaction(func(tx *gorm.DB) error {
		advanced, err := advanceStageTx(tx, actor, assessment.ID, assessment.Stage, models.StageCancelled)
		if err != nil {
			return err
		}
		if reason != "" {
			err = WriteAudit(tx, ActorContext(actor), models.AuditActionCancel,
				"Assessment", advanced.ID, advanced.AssessmentNumber,
				reason, nil, nil)
			if err != nil {
				return err
			}
		}
		result = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
