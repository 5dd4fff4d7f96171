package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"claim_flow_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// descriptionPolicy strips all markup from claimant-supplied free text
var descriptionPolicy = bluemonday.StrictPolicy()

// SubmitClaimRequestInput carries a public claim submission
type SubmitClaimRequestInput struct {
	ClaimType           string
	ClaimantName        string
	ClaimantEmail       string
	ClaimantPhone       string
	PolicyNumber        string
	VehicleRegistration string
	VehicleMake         string
	VehicleModel        string
	IncidentDate        *time.Time
	Description         string
	IPAddress           string
	UserAgent           string
}

// Validate checks the submission for required fields
func (in *SubmitClaimRequestInput) Validate() []string {
	var problems []string
	if strings.TrimSpace(in.ClaimantName) == "" {
		problems = append(problems, "Claimant name is required")
	}
	if strings.TrimSpace(in.ClaimantEmail) == "" {
		problems = append(problems, "Claimant email is required")
	}
	if strings.TrimSpace(in.VehicleRegistration) == "" {
		problems = append(problems, "Vehicle registration is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		problems = append(problems, "Description is required")
	}
	if in.ClaimType != "" && !models.IsValidClaimType(in.ClaimType) {
		problems = append(problems, "Invalid claim type")
	}
	return problems
}

// SubmitClaimRequest records an inbound damage claim. The request number
// is allocated in the same transaction as the insert, so concurrent
// submissions never collide and abandoned transactions never leave holes
// beyond the allocated value.
func SubmitClaimRequest(database *gorm.DB, input SubmitClaimRequestInput) (*models.ClaimRequest, error) {
	if problems := input.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPreconditionFailed, strings.Join(problems, "; "))
	}

	claimType := input.ClaimType
	if claimType == "" {
		claimType = models.ClaimTypeInsurance
	}

	var request *models.ClaimRequest
	err := database.Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()
		kind := RequestSequenceKind(claimType)
		value, err := NextSequence(tx, kind, year)
		if err != nil {
			return err
		}

		req := models.ClaimRequest{
			RequestNumber:       FormatSequenceNumber(kind, year, value),
			ClaimType:           claimType,
			ClaimantName:        strings.TrimSpace(input.ClaimantName),
			ClaimantEmail:       strings.ToLower(strings.TrimSpace(input.ClaimantEmail)),
			VehicleRegistration: strings.ToUpper(strings.TrimSpace(input.VehicleRegistration)),
			IncidentDate:        input.IncidentDate,
			Description:         descriptionPolicy.Sanitize(input.Description),
			Status:              models.RequestStatusPending,
			IPAddress:           input.IPAddress,
			UserAgent:           input.UserAgent,
		}
		if phone := strings.TrimSpace(input.ClaimantPhone); phone != "" {
			req.ClaimantPhone = &phone
		}
		if policy := strings.TrimSpace(input.PolicyNumber); policy != "" {
			req.PolicyNumber = &policy
		}
		if vehicleMake := strings.TrimSpace(input.VehicleMake); vehicleMake != "" {
			req.VehicleMake = &vehicleMake
		}
		if vehicleModel := strings.TrimSpace(input.VehicleModel); vehicleModel != "" {
			req.VehicleModel = &vehicleModel
		}

		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("failed to create claim request: %w", err)
		}

		request = &req
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogAuditEvent(database, AuditContext{IPAddress: input.IPAddress, UserAgent: input.UserAgent},
		models.AuditActionCreate, "ClaimRequest", request.ID, request.RequestNumber,
		"Claim request submitted", nil, nil)

	return request, nil
}

// GetClaimRequest fetches one claim request by ID
func GetClaimRequest(database *gorm.DB, requestID string) (*models.ClaimRequest, error) {
	var request models.ClaimRequest
	if err := database.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// ListClaimRequests fetches claim requests filtered by status
func ListClaimRequests(database *gorm.DB, status string) ([]models.ClaimRequest, error) {
	query := database.Model(&models.ClaimRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.ClaimRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// RejectClaimRequest marks a pending request rejected with a note
func RejectClaimRequest(database *gorm.DB, actor *models.User, requestID, note string) (*models.ClaimRequest, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var request *models.ClaimRequest
	err := database.Transaction(func(tx *gorm.DB) error {
		var req models.ClaimRequest
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !req.IsPending() {
			return fmt.Errorf("%w: request %s has already been reviewed", ErrPreconditionFailed, req.RequestNumber)
		}

		now := time.Now()
		req.Status = models.RequestStatusRejected
		req.RejectionNote = note
		req.ReviewedByID = &actor.ID
		req.ReviewedAt = &now
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		err := WriteAudit(tx, ActorContext(actor), models.AuditActionUpdate,
			"ClaimRequest", req.ID, req.RequestNumber,
			"Claim request rejected",
			map[string]interface{}{"status": models.RequestStatusPending},
			map[string]interface{}{"status": models.RequestStatusRejected})
		if err != nil {
			return err
		}

		request = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}
