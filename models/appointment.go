package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment status constants
const (
	AppointmentStatusScheduled = "SCHEDULED"
	AppointmentStatusConfirmed = "CONFIRMED"
	AppointmentStatusCancelled = "CANCELLED"
	AppointmentStatusCompleted = "COMPLETED"
)

// Appointment represents a scheduled site-visit slot, linked 1:1 to an
// assessment and assigned to exactly one assessor. Assessor visibility of
// an assessment is derived transitively through this assignment.
type Appointment struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identification
	AppointmentNumber string `gorm:"not null;uniqueIndex" json:"appointment_number"`

	// Assessment relationship
	AssessmentID string      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`

	// Assigned assessor
	AssignedToID string `gorm:"type:uuid;not null;index" json:"assigned_to_id"`
	AssignedTo   *User  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	// Schedule
	ScheduledDate time.Time `gorm:"type:date;index;not null" json:"scheduled_date"`
	StartTime     time.Time `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time `gorm:"not null" json:"end_time"`

	// Site details
	Location *string `gorm:"size:255" json:"location,omitempty"`
	Notes    *string `gorm:"type:text" json:"notes,omitempty"`

	// Status
	Status             string     `gorm:"size:20;default:'SCHEDULED';index" json:"status"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledByID      *string    `gorm:"type:uuid" json:"cancelled_by_id,omitempty"`
	CancelledBy        *User      `gorm:"foreignKey:CancelledByID" json:"cancelled_by,omitempty"`
}

// BeforeCreate hook to generate UUID and derive the schedule date
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.ScheduledDate.IsZero() && !a.StartTime.IsZero() {
		a.ScheduledDate = time.Date(a.StartTime.Year(), a.StartTime.Month(), a.StartTime.Day(), 0, 0, 0, 0, time.UTC)
	}
	return nil
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// IsValidAppointmentStatus checks if the status is valid
func IsValidAppointmentStatus(status string) bool {
	validStatuses := []string{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsCancellable checks if the appointment can be cancelled
func (a *Appointment) IsCancellable() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}
