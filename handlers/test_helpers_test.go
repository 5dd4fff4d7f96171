package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"claim_flow_app_go/config"
	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while keeping shared cache
	// for async audit writes
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
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
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createAdmin(t *testing.T, testDB *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Admin",
		Email:    "admin_" + uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(user).Error)
	return user
}

func createAssessor(t *testing.T, testDB *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Assessor",
		Email:    "assessor_" + uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     models.RoleAssessor,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(user).Error)
	return user
}

func createPendingRequest(t *testing.T, testDB *gorm.DB) *models.ClaimRequest {
	t.Helper()
	request := &models.ClaimRequest{
		RequestNumber:       "CLM-2025-" + uuid.New().String()[:8],
		ClaimType:           models.ClaimTypeInsurance,
		ClaimantName:        "Pat Claimant",
		ClaimantEmail:       "pat@example.com",
		VehicleRegistration: "XY99 ZZZ",
		Description:         "Hail damage across bonnet",
		Status:              models.RequestStatusPending,
	}
	assert.NoError(t, testDB.Create(request).Error)
	return request
}
