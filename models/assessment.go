package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment is the canonical record for one claim investigation. Exactly
// one exists per accepted ClaimRequest (unique index on request_id), and
// the CHECK constraint keeps appointment-dependent stages unreachable
// until an appointment is linked, even when writers race.
type Assessment struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identification
	AssessmentNumber string `gorm:"not null;uniqueIndex" json:"assessment_number"`

	// Originating request (exactly one assessment per request)
	RequestID string        `gorm:"type:uuid;not null;uniqueIndex" json:"request_id"`
	Request   *ClaimRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`

	// Site-visit appointment, nullable until scheduled
	AppointmentID *string      `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Appointment   *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`

	// Workflow position
	Stage          Stage      `gorm:"size:40;not null;default:request_submitted;index;check:chk_assessment_appointment,appointment_id IS NOT NULL OR stage IN ('request_submitted','request_accepted','cancelled')" json:"stage"`
	StageChangedAt *time.Time `json:"stage_changed_at,omitempty"`
	StageChangedBy *string    `gorm:"type:uuid" json:"stage_changed_by,omitempty"`

	// Creation bookkeeping
	CreatedByID string `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	// Vehicle snapshot taken from the request at acceptance time
	VehicleRegistration string  `gorm:"size:20;not null;index" json:"vehicle_registration"`
	VehicleMake         *string `gorm:"size:80" json:"vehicle_make,omitempty"`
	VehicleModel        *string `gorm:"size:80" json:"vehicle_model,omitempty"`

	// Relationships
	StageChanger *User        `gorm:"foreignKey:StageChangedBy" json:"stage_changer,omitempty"`
	Inspection   *Inspection  `gorm:"foreignKey:AssessmentID" json:"inspection,omitempty"`
	TyreRecords  []TyreRecord `gorm:"foreignKey:AssessmentID" json:"tyre_records,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Stage == "" {
		a.Stage = StageRequestSubmitted
	}
	return nil
}

// TableName specifies the table name for Assessment model
func (Assessment) TableName() string {
	return "assessments"
}

// HasAppointment checks if an appointment has been linked
func (a *Assessment) HasAppointment() bool {
	return a.AppointmentID != nil && *a.AppointmentID != ""
}

// IsTerminal checks if the assessment has reached a terminal stage
func (a *Assessment) IsTerminal() bool {
	return IsTerminalStage(a.Stage)
}
