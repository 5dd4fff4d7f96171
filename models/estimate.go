package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estimate status constants
const (
	EstimateStatusDraft     = "DRAFT"
	EstimateStatusSent      = "SENT"
	EstimateStatusFinalized = "FINALIZED"
)

// Estimate is the repair-cost estimate for an assessment. At most one
// exists per assessment.
type Estimate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	Status       string     `gorm:"size:20;not null;default:DRAFT" json:"status"`
	LabourCost   *float64   `json:"labour_cost,omitempty"`
	PartsCost    *float64   `json:"parts_cost,omitempty"`
	PaintCost    *float64   `json:"paint_cost,omitempty"`
	TotalCost    *float64   `json:"total_cost,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
	FinalizedBy  *string    `gorm:"type:uuid" json:"finalized_by,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *Estimate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Estimate model
func (Estimate) TableName() string {
	return "estimates"
}

// PreIncidentEstimate records the vehicle's pre-incident condition and
// value, kept separate from the repair estimate. At most one exists per
// assessment.
type PreIncidentEstimate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	ConditionRating *string  `gorm:"size:20" json:"condition_rating,omitempty"`
	PriorDamage     *string  `gorm:"type:text" json:"prior_damage,omitempty"`
	EstimatedValue  *float64 `json:"estimated_value,omitempty"`
	Notes           *string  `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *PreIncidentEstimate) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PreIncidentEstimate model
func (PreIncidentEstimate) TableName() string {
	return "pre_incident_estimates"
}
