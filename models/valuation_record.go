package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValuationRecord holds the vehicle's market valuation for an assessment.
// At most one exists per assessment.
type ValuationRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	MarketValue    *float64 `json:"market_value,omitempty"`
	TradeValue     *float64 `json:"trade_value,omitempty"`
	OdometerKM     *int     `json:"odometer_km,omitempty"`
	ValuationBasis *string  `gorm:"size:120" json:"valuation_basis,omitempty"`
	Notes          *string  `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (v *ValuationRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ValuationRecord model
func (ValuationRecord) TableName() string {
	return "valuation_records"
}
