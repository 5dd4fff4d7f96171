package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tyre positions. Exactly one record exists per (assessment, position).
const (
	TyrePositionFrontLeft  = "FRONT_LEFT"
	TyrePositionFrontRight = "FRONT_RIGHT"
	TyrePositionRearLeft   = "REAR_LEFT"
	TyrePositionRearRight  = "REAR_RIGHT"
	TyrePositionSpare      = "SPARE"
)

// TyrePositions lists the five fixed slots provisioned for every assessment
var TyrePositions = []string{
	TyrePositionFrontLeft,
	TyrePositionFrontRight,
	TyrePositionRearLeft,
	TyrePositionRearRight,
	TyrePositionSpare,
}

// TyreRecord holds the inspection findings for one tyre slot
type TyreRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex:idx_tyre_assessment_position" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	Position string `gorm:"size:20;not null;uniqueIndex:idx_tyre_assessment_position" json:"position"`

	// Findings, filled in during the site visit
	Manufacturer *string  `gorm:"size:80" json:"manufacturer,omitempty"`
	Size         *string  `gorm:"size:40" json:"size,omitempty"`
	TreadDepthMM *float64 `json:"tread_depth_mm,omitempty"`
	Condition    *string  `gorm:"size:40" json:"condition,omitempty"`
	Notes        *string  `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *TyreRecord) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for TyreRecord model
func (TyreRecord) TableName() string {
	return "tyre_records"
}

// IsValidTyrePosition checks if the position is one of the five fixed slots
func IsValidTyrePosition(position string) bool {
	for _, p := range TyrePositions {
		if p == position {
			return true
		}
	}
	return false
}
