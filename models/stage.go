package models

// Stage represents an assessment's position in the workflow pipeline
type Stage string

const (
	StageRequestSubmitted     Stage = "request_submitted"
	StageRequestAccepted      Stage = "request_accepted"
	StageAppointmentScheduled Stage = "appointment_scheduled"
	StageAssessmentInProgress Stage = "assessment_in_progress"
	StageEstimateReview       Stage = "estimate_review"
	StageEstimateSent         Stage = "estimate_sent"
	StageEstimateFinalized    Stage = "estimate_finalized"
	StageFRCInProgress        Stage = "frc_in_progress"
	StageFRCCompleted         Stage = "frc_completed"
	StageArchived             Stage = "archived"
	StageCancelled            Stage = "cancelled"
)

// stageOrder gives each pipeline stage its position. Cancelled sits outside
// the pipeline and has no order.
var stageOrder = map[Stage]int{
	StageRequestSubmitted:     0,
	StageRequestAccepted:      1,
	StageAppointmentScheduled: 2,
	StageAssessmentInProgress: 3,
	StageEstimateReview:       4,
	StageEstimateSent:         5,
	StageEstimateFinalized:    6,
	StageFRCInProgress:        7,
	StageFRCCompleted:         8,
	StageArchived:             9,
}

// allowedPredecessors maps each stage to the stages a transition into it
// may come from. The appointment-cancellation fallback is the single
// backward edge (assessment_in_progress -> appointment_scheduled).
var allowedPredecessors = map[Stage][]Stage{
	StageRequestAccepted:      {StageRequestSubmitted},
	StageAppointmentScheduled: {StageRequestAccepted, StageAssessmentInProgress},
	StageAssessmentInProgress: {StageAppointmentScheduled},
	StageEstimateReview:       {StageAssessmentInProgress},
	StageEstimateSent:         {StageEstimateReview},
	StageEstimateFinalized:    {StageEstimateSent},
	StageFRCInProgress:        {StageEstimateFinalized},
	StageFRCCompleted:         {StageFRCInProgress},
	StageArchived:             {StageFRCCompleted},
}

// IsValidStage checks if the stage is a member of the closed set
func IsValidStage(stage Stage) bool {
	if stage == StageCancelled {
		return true
	}
	_, ok := stageOrder[stage]
	return ok
}

// IsTerminalStage reports whether no further transitions may leave the stage
func IsTerminalStage(stage Stage) bool {
	return stage == StageArchived || stage == StageCancelled
}

// CanTransition reports whether from -> to is an allowed transition.
// Cancellation is a side exit permitted from any non-terminal stage.
func CanTransition(from, to Stage) bool {
	if from == to {
		return false
	}
	if to == StageCancelled {
		return IsValidStage(from) && !IsTerminalStage(from)
	}
	for _, p := range allowedPredecessors[to] {
		if p == from {
			return true
		}
	}
	return false
}

// RequiresAppointment reports whether a stage may only be entered once the
// assessment has a linked appointment
func RequiresAppointment(stage Stage) bool {
	order, ok := stageOrder[stage]
	if !ok {
		return false
	}
	return order >= stageOrder[StageAppointmentScheduled]
}

// StageOrder returns the pipeline position of a stage, or -1 for stages
// outside the pipeline (cancelled or unknown)
func StageOrder(stage Stage) int {
	order, ok := stageOrder[stage]
	if !ok {
		return -1
	}
	return order
}
