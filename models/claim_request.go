package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim types determine the request number prefix
const (
	ClaimTypeInsurance = "insurance" // CLM-YYYY-NNN
	ClaimTypePrivate   = "private"   // REQ-YYYY-NNN
)

// Request status
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// ClaimRequest is the originating damage-claim submission. Immutable once
// an Assessment references it, except for review bookkeeping.
type ClaimRequest struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identification
	RequestNumber string `gorm:"not null;uniqueIndex" json:"request_number"`
	ClaimType     string `gorm:"size:20;not null;default:insurance" json:"claim_type"`

	// Claimant information
	ClaimantName  string  `gorm:"not null" json:"claimant_name"`
	ClaimantEmail string  `gorm:"not null;index" json:"claimant_email"`
	ClaimantPhone *string `gorm:"size:20" json:"claimant_phone,omitempty"`
	PolicyNumber  *string `gorm:"size:50" json:"policy_number,omitempty"`

	// Vehicle and incident details
	VehicleRegistration string     `gorm:"size:20;not null;index" json:"vehicle_registration"`
	VehicleMake         *string    `gorm:"size:80" json:"vehicle_make,omitempty"`
	VehicleModel        *string    `gorm:"size:80" json:"vehicle_model,omitempty"`
	IncidentDate        *time.Time `json:"incident_date,omitempty"`
	Description         string     `gorm:"type:text;not null" json:"description"`

	// Review state
	Status        string     `gorm:"not null;default:pending;index" json:"status"`
	RejectionNote string     `gorm:"type:text" json:"rejection_note,omitempty"`
	ReviewedByID  *string    `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewedBy    *User      `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	// Submission metadata
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`
}

// BeforeCreate hook to generate UUID
func (cr *ClaimRequest) BeforeCreate(tx *gorm.DB) error {
	if cr.ID == "" {
		cr.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ClaimRequest model
func (ClaimRequest) TableName() string {
	return "claim_requests"
}

// IsValidClaimType checks if the claim type is valid
func IsValidClaimType(claimType string) bool {
	return claimType == ClaimTypeInsurance || claimType == ClaimTypePrivate
}

// IsValidRequestStatus checks if the status is valid
func IsValidRequestStatus(status string) bool {
	validStatuses := []string{
		RequestStatusPending,
		RequestStatusAccepted,
		RequestStatusRejected,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsPending checks if the request is still awaiting review
func (cr *ClaimRequest) IsPending() bool {
	return cr.Status == RequestStatusPending
}
