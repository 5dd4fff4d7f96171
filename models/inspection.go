package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inspection represents the on-site vehicle inspection carried out during
// a site visit. At most one exists per assessment.
type Inspection struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identification
	InspectionNumber string `gorm:"not null;uniqueIndex" json:"inspection_number"`

	AssessmentID string      `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"-"`

	InspectedByID *string    `gorm:"type:uuid" json:"inspected_by_id,omitempty"`
	InspectedBy   *User      `gorm:"foreignKey:InspectedByID" json:"inspected_by,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Photos []InspectionPhoto `gorm:"foreignKey:InspectionID" json:"photos,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Inspection) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Inspection model
func (Inspection) TableName() string {
	return "inspections"
}

// InspectionPhoto is the metadata row for one uploaded inspection photo.
// The binary itself lives in the configured storage provider under Key.
type InspectionPhoto struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	InspectionID string      `gorm:"type:uuid;not null;index" json:"inspection_id"`
	Inspection   *Inspection `gorm:"foreignKey:InspectionID" json:"-"`

	Key              string  `gorm:"not null" json:"-"`
	FileName         string  `gorm:"not null" json:"file_name"`
	FileOriginalName string  `json:"file_original_name,omitempty"`
	FileSize         int64   `json:"file_size,omitempty"`
	MimeType         string  `gorm:"size:100" json:"mime_type,omitempty"`
	Caption          *string `gorm:"size:255" json:"caption,omitempty"`
	UploadedByID     *string `gorm:"type:uuid" json:"uploaded_by_id,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *InspectionPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for InspectionPhoto model
func (InspectionPhoto) TableName() string {
	return "inspection_photos"
}
