package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// EnsureInspection returns the inspection record for an assessment,
// creating it with a fresh INS number on first call. The unique index on
// assessment_id makes concurrent first calls converge on one record.
func EnsureInspection(database *gorm.DB, actor *models.User, assessmentID string) (*models.Inspection, error) {
	assessment, err := GetAssessment(database, actor, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.Stage != models.StageAssessmentInProgress {
		return nil, fmt.Errorf("%w: assessment %s is not in progress", ErrPreconditionFailed, assessment.AssessmentNumber)
	}

	var inspection models.Inspection
	err = database.First(&inspection, "assessment_id = ?", assessment.ID).Error
	if err == nil {
		return &inspection, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = database.Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()
		value, err := NextSequence(tx, SequenceKindInspection, year)
		if err != nil {
			return err
		}

		now := time.Now()
		inspection = models.Inspection{
			InspectionNumber: FormatSequenceNumber(SequenceKindInspection, year, value),
			AssessmentID:     assessment.ID,
			StartedAt:        &now,
		}
		if actor != nil {
			id := actor.ID
			inspection.InspectedByID = &id
		}
		return tx.Create(&inspection).Error
	})
	if err != nil {
		// A concurrent caller may have created it between our read and write
		var existing models.Inspection
		if readErr := database.First(&existing, "assessment_id = ?", assessment.ID).Error; readErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}

	return &inspection, nil
}

// AttachInspectionPhoto stores a photo through the configured storage
// provider and records its metadata
func AttachInspectionPhoto(ctx context.Context, database *gorm.DB, actor *models.User, inspectionID string, file *multipart.FileHeader, caption string) (*models.InspectionPhoto, error) {
	var inspection models.Inspection
	if err := database.First(&inspection, "id = ?", inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed, err := CanModifyAssessment(database, actor, inspection.AssessmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if Storage == nil {
		return nil, fmt.Errorf("storage provider not initialized")
	}

	key := GenerateInspectionPhotoKey(inspection.AssessmentID, inspection.ID, file.Filename)
	result, err := Storage.Upload(ctx, file, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := models.InspectionPhoto{
		InspectionID:     inspection.ID,
		Key:              result.Key,
		FileName:         result.FileName,
		FileOriginalName: file.Filename,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
	}
	if caption != "" {
		photo.Caption = &caption
	}
	if actor != nil {
		id := actor.ID
		photo.UploadedByID = &id
	}

	if err := database.Create(&photo).Error; err != nil {
		// Metadata insert failed: clean up the stored object
		_ = Storage.Delete(ctx, result.Key)
		return nil, fmt.Errorf("failed to record photo metadata: %w", err)
	}

	return &photo, nil
}

// CompleteInspection marks the inspection finished
func CompleteInspection(database *gorm.DB, actor *models.User, inspectionID string, notes string) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := database.First(&inspection, "id = ?", inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed, err := CanModifyAssessment(database, actor, inspection.AssessmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	now := time.Now()
	updates := map[string]interface{}{"completed_at": now}
	if notes != "" {
		updates["notes"] = notes
	}
	if err := database.Model(&inspection).Updates(updates).Error; err != nil {
		return nil, err
	}

	inspection.CompletedAt = &now
	return &inspection, nil
}
