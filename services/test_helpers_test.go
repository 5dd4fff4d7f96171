package services

import (
	"path/filepath"
	"testing"
	"time"

	"claim_flow_app_go/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migrateAll(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.SequenceCounter{},
		&models.ClaimRequest{},
		&models.Assessment{},
		&models.Appointment{},
		&models.TyreRecord{},
		&models.DamageRecord{},
		&models.ValuationRecord{},
		&models.PreIncidentEstimate{},
		&models.Estimate{},
		&models.Inspection{},
		&models.InspectionPhoto{},
		&models.AuditLog{},
	)
	if err != nil {
		panic("failed to run test migrations: " + err.Error())
	}
}

// setupTestDB opens an isolated in-memory database for sequential tests
func setupTestDB(prefix string) *gorm.DB {
	dsn := "file:" + prefix + "_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect test database")
	}
	migrateAll(db)
	return db
}

// setupFileTestDB opens a WAL-mode file database with the production DSN
// options for tests that hammer the engine from many goroutines;
// shared-cache memory databases serialize differently than the production
// setup does.
func setupFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	migrateAll(db)
	return db
}

func createTestAdmin(db *gorm.DB) *models.User {
	user := &models.User{
		Name:     "Admin User",
		Email:    "admin_" + uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	db.Create(user)
	return user
}

func createTestAssessor(db *gorm.DB, name string) *models.User {
	user := &models.User{
		Name:     name,
		Email:    name + "_" + uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     models.RoleAssessor,
		IsActive: true,
	}
	db.Create(user)
	return user
}

func createTestRequest(db *gorm.DB) *models.ClaimRequest {
	request := &models.ClaimRequest{
		RequestNumber:       "CLM-2025-" + uuid.New().String()[:8],
		ClaimType:           models.ClaimTypeInsurance,
		ClaimantName:        "Jane Claimant",
		ClaimantEmail:       "jane@example.com",
		VehicleRegistration: "AB12 CDE",
		Description:         "Rear bumper damage",
		Status:              models.RequestStatusPending,
	}
	db.Create(request)
	return request
}

// createTestAssessment goes through the real acceptance path so the
// fixture carries a request, review bookkeeping and audit entries.
func createTestAssessment(t *testing.T, db *gorm.DB, admin *models.User) *models.Assessment {
	t.Helper()
	request := createTestRequest(db)
	assessment, err := CreateAssessmentForRequest(db, admin, request.ID)
	if err != nil {
		t.Fatalf("failed to create test assessment: %v", err)
	}
	return assessment
}

// scheduleTestAppointment books a site visit and returns the refreshed
// assessment (now at appointment_scheduled).
func scheduleTestAppointment(t *testing.T, db *gorm.DB, admin *models.User, assessor *models.User, assessmentID string) (*models.Appointment, *models.Assessment) {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	appointment, err := ScheduleAppointment(db, admin, ScheduleAppointmentInput{
		AssessmentID: assessmentID,
		AssessorID:   assessor.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Location:     "12 Garage Lane",
	})
	if err != nil {
		t.Fatalf("failed to schedule test appointment: %v", err)
	}

	assessment, err := GetAssessment(db, admin, assessmentID)
	if err != nil {
		t.Fatalf("failed to reload assessment: %v", err)
	}
	return appointment, assessment
}
