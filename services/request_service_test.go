package services

import (
	"testing"

	"claim_flow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func validSubmission() SubmitClaimRequestInput {
	return SubmitClaimRequestInput{
		ClaimType:           models.ClaimTypeInsurance,
		ClaimantName:        "  Sam Driver ",
		ClaimantEmail:       "Sam.Driver@Example.com",
		VehicleRegistration: "ab12 cde",
		Description:         "Front wing dented in car park",
	}
}

func TestSubmitClaimRequest(t *testing.T) {
	db := setupTestDB("submit_request")

	request, err := SubmitClaimRequest(db, validSubmission())
	assert.NoError(t, err)
	assert.Regexp(t, `^CLM-\d{4}-\d{3}$`, request.RequestNumber)
	assert.Equal(t, models.RequestStatusPending, request.Status)

	// Input normalization
	assert.Equal(t, "Sam Driver", request.ClaimantName)
	assert.Equal(t, "sam.driver@example.com", request.ClaimantEmail)
	assert.Equal(t, "AB12 CDE", request.VehicleRegistration)
}

func TestSubmitClaimRequest_PrefixPerClaimType(t *testing.T) {
	db := setupTestDB("submit_prefix")

	insurance, err := SubmitClaimRequest(db, validSubmission())
	assert.NoError(t, err)
	assert.Regexp(t, `^CLM-`, insurance.RequestNumber)

	private := validSubmission()
	private.ClaimType = models.ClaimTypePrivate
	privateReq, err := SubmitClaimRequest(db, private)
	assert.NoError(t, err)
	assert.Regexp(t, `^REQ-`, privateReq.RequestNumber)

	// The two prefixes count independently
	assert.Regexp(t, `-001$`, insurance.RequestNumber)
	assert.Regexp(t, `-001$`, privateReq.RequestNumber)
}

func TestSubmitClaimRequest_SanitizesDescription(t *testing.T) {
	db := setupTestDB("submit_sanitize")

	input := validSubmission()
	input.Description = `Scratched door <script>alert("x")</script> and <b>broken light</b>`
	request, err := SubmitClaimRequest(db, input)
	assert.NoError(t, err)
	assert.NotContains(t, request.Description, "<script>")
	assert.NotContains(t, request.Description, "<b>")
	assert.Contains(t, request.Description, "Scratched door")
	assert.Contains(t, request.Description, "broken light")
}

func TestSubmitClaimRequest_Validation(t *testing.T) {
	db := setupTestDB("submit_validation")

	_, err := SubmitClaimRequest(db, SubmitClaimRequestInput{})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	input := validSubmission()
	input.ClaimType = "third-party"
	_, err = SubmitClaimRequest(db, input)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// Nothing was written
	var count int64
	db.Model(&models.ClaimRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRejectClaimRequest(t *testing.T) {
	db := setupTestDB("reject_request")
	admin := createTestAdmin(db)
	request := createTestRequest(db)

	rejected, err := RejectClaimRequest(db, admin, request.ID, "duplicate of an earlier claim")
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "duplicate of an earlier claim", rejected.RejectionNote)
	assert.NotNil(t, rejected.ReviewedByID)

	// A rejected request cannot be accepted afterwards
	_, err = CreateAssessmentForRequest(db, admin, request.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// Nor rejected twice
	_, err = RejectClaimRequest(db, admin, request.ID, "again")
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestRejectClaimRequest_AdminOnly(t *testing.T) {
	db := setupTestDB("reject_roles")
	assessor := createTestAssessor(db, "rejector")
	request := createTestRequest(db)

	_, err := RejectClaimRequest(db, assessor, request.ID, "nope")
	assert.ErrorIs(t, err, ErrForbidden)
}
