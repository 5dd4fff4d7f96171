package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// Forward hops along the pipeline
	assert.True(t, CanTransition(StageRequestSubmitted, StageRequestAccepted))
	assert.True(t, CanTransition(StageRequestAccepted, StageAppointmentScheduled))
	assert.True(t, CanTransition(StageAppointmentScheduled, StageAssessmentInProgress))
	assert.True(t, CanTransition(StageAssessmentInProgress, StageEstimateReview))
	assert.True(t, CanTransition(StageEstimateReview, StageEstimateSent))
	assert.True(t, CanTransition(StageEstimateSent, StageEstimateFinalized))
	assert.True(t, CanTransition(StageEstimateFinalized, StageFRCInProgress))
	assert.True(t, CanTransition(StageFRCInProgress, StageFRCCompleted))
	assert.True(t, CanTransition(StageFRCCompleted, StageArchived))

	// The single backward edge: appointment cancellation fallback
	assert.True(t, CanTransition(StageAssessmentInProgress, StageAppointmentScheduled))

	// No skipping, no other reversals
	assert.False(t, CanTransition(StageRequestAccepted, StageAssessmentInProgress))
	assert.False(t, CanTransition(StageRequestSubmitted, StageEstimateReview))
	assert.False(t, CanTransition(StageEstimateSent, StageEstimateReview))
	assert.False(t, CanTransition(StageAppointmentScheduled, StageRequestAccepted))

	// A stage never transitions to itself
	assert.False(t, CanTransition(StageRequestAccepted, StageRequestAccepted))
	assert.False(t, CanTransition(StageCancelled, StageCancelled))
}

func TestCanTransition_Cancellation(t *testing.T) {
	// Cancellation is reachable from any non-terminal stage
	for stage := range stageOrder {
		if IsTerminalStage(stage) {
			continue
		}
		assert.True(t, CanTransition(stage, StageCancelled), "expected %s -> cancelled", stage)
	}

	// But not from terminal stages, and never out of cancelled
	assert.False(t, CanTransition(StageArchived, StageCancelled))
	assert.False(t, CanTransition(StageCancelled, StageRequestSubmitted))
	assert.False(t, CanTransition(StageCancelled, StageArchived))

	// Unknown stages cannot be cancelled either
	assert.False(t, CanTransition(Stage("bogus"), StageCancelled))
}

func TestRequiresAppointment(t *testing.T) {
	assert.False(t, RequiresAppointment(StageRequestSubmitted))
	assert.False(t, RequiresAppointment(StageRequestAccepted))
	assert.False(t, RequiresAppointment(StageCancelled))

	assert.True(t, RequiresAppointment(StageAppointmentScheduled))
	assert.True(t, RequiresAppointment(StageAssessmentInProgress))
	assert.True(t, RequiresAppointment(StageEstimateReview))
	assert.True(t, RequiresAppointment(StageArchived))
}

func TestIsValidStage(t *testing.T) {
	assert.True(t, IsValidStage(StageRequestSubmitted))
	assert.True(t, IsValidStage(StageCancelled))
	assert.False(t, IsValidStage(Stage("in_review")))
	assert.False(t, IsValidStage(Stage("")))
}

func TestStageOrder(t *testing.T) {
	assert.Equal(t, 0, StageOrder(StageRequestSubmitted))
	assert.Equal(t, 9, StageOrder(StageArchived))
	assert.Equal(t, -1, StageOrder(StageCancelled))
	assert.Equal(t, -1, StageOrder(Stage("bogus")))

	assert.Less(t, StageOrder(StageAppointmentScheduled), StageOrder(StageAssessmentInProgress))
}
