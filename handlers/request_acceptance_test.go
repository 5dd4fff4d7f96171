package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"claim_flow_app_go/models"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAcceptClaimRequestHandler(t *testing.T) {
	testDB := setupTestDB(t)
	admin := createAdmin(t, testDB)
	request := createPendingRequest(t, testDB)

	_, c, rec := setupEcho(http.MethodPost, "/api/claim-requests/"+request.ID+"/accept", nil)
	c.SetParamNames("id")
	c.SetParamValues(request.ID)
	asUser(c, admin)

	err := AcceptClaimRequestHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Regexp(t, `^ASM-\d{4}-\d{3}$`, body["assessment_number"])
	assert.Equal(t, string(models.StageRequestAccepted), body["stage"])
}

func TestAcceptClaimRequestHandler_DuplicateIs409(t *testing.T) {
	testDB := setupTestDB(t)
	admin := createAdmin(t, testDB)
	request := createPendingRequest(t, testDB)

	_, err := services.CreateAssessmentForRequest(testDB, admin, request.ID)
	assert.NoError(t, err)

	_, c, _ := setupEcho(http.MethodPost, "/api/claim-requests/"+request.ID+"/accept", nil)
	c.SetParamNames("id")
	c.SetParamValues(request.ID)
	asUser(c, admin)

	err = AcceptClaimRequestHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestAcceptClaimRequestHandler_UnknownRequestIs404(t *testing.T) {
	testDB := setupTestDB(t)
	admin := createAdmin(t, testDB)

	_, c, _ := setupEcho(http.MethodPost, "/api/claim-requests/missing/accept", nil)
	c.SetParamNames("id")
	c.SetParamValues("00000000-0000-0000-0000-000000000000")
	asUser(c, admin)

	err := AcceptClaimRequestHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestFindAssessmentByRequestHandler_StrictLookup(t *testing.T) {
	testDB := setupTestDB(t)
	admin := createAdmin(t, testDB)
	request := createPendingRequest(t, testDB)

	_, c, _ := setupEcho(http.MethodGet, "/api/claim-requests/"+request.ID+"/assessment", nil)
	c.SetParamNames("id")
	c.SetParamValues(request.ID)
	asUser(c, admin)

	// Not accepted yet: 404, and no assessment silently created
	err := FindAssessmentByRequestHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)

	var count int64
	testDB.Model(&models.Assessment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
