package services

import (
	"testing"

	"claim_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func startedAssessment(t *testing.T, db *gorm.DB, admin *models.User, assessor *models.User) *models.Assessment {
	t.Helper()
	assessment := createTestAssessment(t, db, admin)
	scheduleTestAppointment(t, db, admin, assessor, assessment.ID)
	started, err := StartAssessment(db, admin, assessment.ID)
	if err != nil {
		t.Fatalf("failed to start assessment: %v", err)
	}
	return started
}

func TestEnsureInspection(t *testing.T) {
	db := setupTestDB("ensure_inspection")
	admin := createTestAdmin(db)
	assessor := createTestAssessor(db, "inspector")
	assessment := startedAssessment(t, db, admin, assessor)

	inspection, err := EnsureInspection(db, assessor, assessment.ID)
	assert.NoError(t, err)
	assert.Regexp(t, `^INS-\d{4}-\d{3}$`, inspection.InspectionNumber)
	assert.NotNil(t, inspection.StartedAt)
	assert.NotNil(t, inspection.InspectedByID)
	assert.Equal(t, assessor.ID, *inspection.InspectedByID)

	// Second call returns the same record, no new number burnt
	again, err := EnsureInspection(db, assessor, assessment.ID)
	assert.NoError(t, err)
	assert.Equal(t, inspection.ID, again.ID)

	var count int64
	db.Model(&models.Inspection{}).Where("assessment_id = ?", assessment.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureInspection_RequiresInProgress(t *testing.T) {
	db := setupTestDB("inspection_stage")
	admin := createTestAdmin(db)
	assessment := createTestAssessment(t, db, admin)

	_, err := EnsureInspection(db, admin, assessment.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestCompleteInspection(t *testing.T) {
	db := setupTestDB("complete_inspection")
	admin := createTestAdmin(db)
	assessor := createTestAssessor(db, "finisher")
	assessment := startedAssessment(t, db, admin, assessor)

	inspection, err := EnsureInspection(db, assessor, assessment.ID)
	assert.NoError(t, err)

	completed, err := CompleteInspection(db, assessor, inspection.ID, "all photographed")
	assert.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	var reloaded models.Inspection
	assert.NoError(t, db.First(&reloaded, "id = ?", inspection.ID).Error)
	assert.NotNil(t, reloaded.Notes)
	assert.Equal(t, "all photographed", *reloaded.Notes)
}

func TestCompleteInspection_ScopeEnforced(t *testing.T) {
	db := setupTestDB("inspection_scope")
	admin := createTestAdmin(db)
	owner := createTestAssessor(db, "iowner")
	other := createTestAssessor(db, "iother")
	assessment := startedAssessment(t, db, admin, owner)

	inspection, err := EnsureInspection(db, owner, assessment.ID)
	assert.NoError(t, err)

	_, err = CompleteInspection(db, other, inspection.ID, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)
}
