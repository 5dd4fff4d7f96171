package services

import (
	"errors"
	"fmt"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRecords bundles the per-assessment child records provisioned at
// assessment start
type DefaultRecords struct {
	Tyres       []models.TyreRecord        `json:"tyres"`
	Damage      models.DamageRecord        `json:"damage"`
	Valuation   models.ValuationRecord     `json:"valuation"`
	PreIncident models.PreIncidentEstimate `json:"pre_incident"`
	Estimate    models.Estimate            `json:"estimate"`
}

// EnsureDefaultRecords creates the fixed set of child records for an
// assessment: the five tyre slots, the damage record, the valuation
// record, the pre-incident estimate and the estimate. Every insert is an
// upsert-or-noop against the uniqueness key, so calling this any number
// of times (retries, reloads, concurrent workers) leaves exactly one row
// per key and returns the existing records untouched.
func EnsureDefaultRecords(database *gorm.DB, assessmentID string) (*DefaultRecords, error) {
	doNothing := clause.OnConflict{DoNothing: true}

	for _, position := range models.TyrePositions {
		tyre := models.TyreRecord{AssessmentID: assessmentID, Position: position}
		if err := database.Clauses(doNothing).Create(&tyre).Error; err != nil {
			return nil, fmt.Errorf("failed to provision tyre slot %s: %w", position, err)
		}
	}

	damage := models.DamageRecord{AssessmentID: assessmentID}
	if err := database.Clauses(doNothing).Create(&damage).Error; err != nil {
		return nil, fmt.Errorf("failed to provision damage record: %w", err)
	}

	valuation := models.ValuationRecord{AssessmentID: assessmentID}
	if err := database.Clauses(doNothing).Create(&valuation).Error; err != nil {
		return nil, fmt.Errorf("failed to provision valuation record: %w", err)
	}

	preIncident := models.PreIncidentEstimate{AssessmentID: assessmentID}
	if err := database.Clauses(doNothing).Create(&preIncident).Error; err != nil {
		return nil, fmt.Errorf("failed to provision pre-incident estimate: %w", err)
	}

	estimate := models.Estimate{AssessmentID: assessmentID, Status: models.EstimateStatusDraft}
	if err := database.Clauses(doNothing).Create(&estimate).Error; err != nil {
		return nil, fmt.Errorf("failed to provision estimate: %w", err)
	}

	return GetDefaultRecords(database, assessmentID)
}

// GetDefaultRecords loads the child records for an assessment. An
// assessment that has not been provisioned yet surfaces ErrNotFound.
func GetDefaultRecords(database *gorm.DB, assessmentID string) (*DefaultRecords, error) {
	records := &DefaultRecords{}

	err := database.Where("assessment_id = ?", assessmentID).
		Order("position ASC").
		Find(&records.Tyres).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tyre records: %w", err)
	}

	singletons := []struct {
		name string
		dest interface{}
	}{
		{"damage record", &records.Damage},
		{"valuation record", &records.Valuation},
		{"pre-incident estimate", &records.PreIncident},
		{"estimate", &records.Estimate},
	}
	for _, s := range singletons {
		if err := database.First(s.dest, "assessment_id = ?", assessmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to load %s: %w", s.name, err)
		}
	}

	return records, nil
}
