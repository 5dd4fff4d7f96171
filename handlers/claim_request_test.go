package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"claim_flow_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSubmitClaimRequestHandler(t *testing.T) {
	testDB := setupTestDB(t)

	payload := `{
		"claim_type": "insurance",
		"claimant_name": "Robin Hood",
		"claimant_email": "robin@example.com",
		"vehicle_registration": "NT70 ARL",
		"incident_date": "2025-08-14",
		"description": "Side swipe on the A1"
	}`
	_, c, rec := setupEcho(http.MethodPost, "/api/claim-requests", strings.NewReader(payload))

	assert.NoError(t, SubmitClaimRequestHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Regexp(t, `^CLM-\d{4}-\d{3}$`, body["request_number"])

	var stored models.ClaimRequest
	assert.NoError(t, testDB.First(&stored, "id = ?", body["request_id"]).Error)
	assert.Equal(t, models.RequestStatusPending, stored.Status)
	assert.NotNil(t, stored.IncidentDate)
}

func TestSubmitClaimRequestHandler_MissingFieldsIs400(t *testing.T) {
	setupTestDB(t)

	payload := `{"claimant_name": "No Details"}`
	_, c, _ := setupEcho(http.MethodPost, "/api/claim-requests", strings.NewReader(payload))

	err := SubmitClaimRequestHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSubmitClaimRequestHandler_BadDateIs400(t *testing.T) {
	setupTestDB(t)

	payload := `{
		"claimant_name": "Robin Hood",
		"claimant_email": "robin@example.com",
		"vehicle_registration": "NT70 ARL",
		"incident_date": "14/08/2025",
		"description": "Side swipe"
	}`
	_, c, _ := setupEcho(http.MethodPost, "/api/claim-requests", strings.NewReader(payload))

	err := SubmitClaimRequestHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestRejectClaimRequestHandler(t *testing.T) {
	testDB := setupTestDB(t)
	admin := createAdmin(t, testDB)
	request := createPendingRequest(t, testDB)

	payload := `{"note": "outside coverage period"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/claim-requests/"+request.ID+"/reject", strings.NewReader(payload))
	c.SetParamNames("id")
	c.SetParamValues(request.ID)
	asUser(c, admin)

	assert.NoError(t, RejectClaimRequestHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored models.ClaimRequest
	assert.NoError(t, testDB.First(&stored, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusRejected, stored.Status)
	assert.Equal(t, "outside coverage period", stored.RejectionNote)
}
