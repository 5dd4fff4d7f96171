package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DamageRecord captures the observed vehicle damage for an assessment.
// At most one exists per assessment.
type DamageRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	ImpactPoints     *string `gorm:"type:text" json:"impact_points,omitempty"`
	AffectedPanels   *string `gorm:"type:text" json:"affected_panels,omitempty"`
	StructuralDamage bool    `gorm:"not null;default:false" json:"structural_damage"`
	Drivable         *bool   `json:"drivable,omitempty"`
	Notes            *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *DamageRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DamageRecord model
func (DamageRecord) TableName() string {
	return "damage_records"
}
