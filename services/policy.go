package services

import (
	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// ScopedAssessments returns a query filtered to the assessments the actor
// may see. Administrators are unrestricted. Assessors see only
// assessments whose linked appointment is assigned to them: ownership is
// derived through the appointment on every query, never cached and never
// stored redundantly on the assessment. An assessment without a linked
// appointment matches nothing for an assessor, so pre-scheduling stages
// are denied by default.
func ScopedAssessments(database *gorm.DB, actor *models.User) *gorm.DB {
	if actor == nil {
		return database.Model(&models.Assessment{}).Where("1 = 0")
	}
	if actor.IsAdmin() {
		return database.Model(&models.Assessment{})
	}
	return database.Model(&models.Assessment{}).
		Select("assessments.*").
		Joins("JOIN appointments ON appointments.id = assessments.appointment_id").
		Where("appointments.assigned_to_id = ?", actor.ID)
}

// ScopedAppointments returns a query filtered to the appointments the
// actor may see
func ScopedAppointments(database *gorm.DB, actor *models.User) *gorm.DB {
	if actor == nil {
		return database.Model(&models.Appointment{}).Where("1 = 0")
	}
	if actor.IsAdmin() {
		return database.Model(&models.Appointment{})
	}
	return database.Model(&models.Appointment{}).
		Where("appointments.assigned_to_id = ?", actor.ID)
}

// CanCreateAssessment reports whether the actor may create assessments.
// Creation is administrator-only; assessors never insert, regardless of
// stage or ownership.
func CanCreateAssessment(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanModifyAssessment checks write access to one assessment. It
// re-evaluates ownership against the appointments table on every call
// because assignment can change between requests.
func CanModifyAssessment(database *gorm.DB, actor *models.User, assessmentID string) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}

	var count int64
	err := ScopedAssessments(database, actor).
		Where("assessments.id = ?", assessmentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
