package services

import (
	"testing"

	"claim_flow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestEnsureDefaultRecords(t *testing.T) {
	db := setupTestDB("provision")
	admin := createTestAdmin(db)
	assessment := createTestAssessment(t, db, admin)

	records, err := EnsureDefaultRecords(db, assessment.ID)
	assert.NoError(t, err)

	assert.Len(t, records.Tyres, 5)
	positions := make(map[string]bool)
	for _, tyre := range records.Tyres {
		positions[tyre.Position] = true
	}
	for _, p := range models.TyrePositions {
		assert.True(t, positions[p], "missing tyre slot %s", p)
	}

	assert.Equal(t, assessment.ID, records.Damage.AssessmentID)
	assert.Equal(t, assessment.ID, records.Valuation.AssessmentID)
	assert.Equal(t, assessment.ID, records.PreIncident.AssessmentID)
	assert.Equal(t, assessment.ID, records.Estimate.AssessmentID)
	assert.Equal(t, models.EstimateStatusDraft, records.Estimate.Status)
}

func TestEnsureDefaultRecords_Idempotent(t *testing.T) {
	db := setupTestDB("provision_idempotent")
	admin := createTestAdmin(db)
	assessment := createTestAssessment(t, db, admin)

	_, err := EnsureDefaultRecords(db, assessment.ID)
	assert.NoError(t, err)

	// An assessor records findings between invocations
	var frontLeft models.TyreRecord
	assert.NoError(t, db.First(&frontLeft, "assessment_id = ? AND position = ?", assessment.ID, models.TyrePositionFrontLeft).Error)
	depth := 3.5
	assert.NoError(t, db.Model(&frontLeft).Update("tread_depth_mm", depth).Error)

	// Repeated invocations never duplicate rows or clobber edits
	for i := 0; i < 3; i++ {
		records, err := EnsureDefaultRecords(db, assessment.ID)
		assert.NoError(t, err)
		assert.Len(t, records.Tyres, 5)
	}

	var tyreCount int64
	db.Model(&models.TyreRecord{}).Where("assessment_id = ?", assessment.ID).Count(&tyreCount)
	assert.Equal(t, int64(5), tyreCount)

	var estimateCount int64
	db.Model(&models.Estimate{}).Where("assessment_id = ?", assessment.ID).Count(&estimateCount)
	assert.Equal(t, int64(1), estimateCount)

	var reloaded models.TyreRecord
	assert.NoError(t, db.First(&reloaded, "id = ?", frontLeft.ID).Error)
	assert.NotNil(t, reloaded.TreadDepthMM)
	assert.Equal(t, depth, *reloaded.TreadDepthMM)
}

func TestGetDefaultRecords_BeforeProvisioning(t *testing.T) {
	db := setupTestDB("provision_missing")
	admin := createTestAdmin(db)
	assessment := createTestAssessment(t, db, admin)

	// Not a raw driver error: callers map this to a 404
	_, err := GetDefaultRecords(db, assessment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
