package services

import (
	"testing"
	"time"

	"claim_flow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB("sessions")
	admin := createTestAdmin(db)

	session, err := CreateSession(db, admin.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.Len(t, session.Token, 64)

	validated, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, admin.ID, validated.UserID)
	assert.Equal(t, admin.Email, validated.User.Email)

	assert.NoError(t, DeleteSession(db, session.Token))
	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)
}

func TestValidateSession_Expired(t *testing.T) {
	db := setupTestDB("sessions_expired")
	admin := createTestAdmin(db)

	session, err := CreateSession(db, admin.ID, "", "")
	assert.NoError(t, err)

	// Force expiry in the past
	assert.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)

	// Expired sessions are removed on validation
	var count int64
	db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupTestDB("sessions_cleanup")
	admin := createTestAdmin(db)

	live, _ := CreateSession(db, admin.ID, "", "")
	stale, _ := CreateSession(db, admin.ID, "", "")
	db.Model(&models.Session{}).Where("id = ?", stale.ID).
		Update("expires_at", time.Now().Add(-time.Hour))

	assert.NoError(t, CleanupExpiredSessions(db))

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var remaining models.Session
	assert.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, live.ID, remaining.ID)
}
