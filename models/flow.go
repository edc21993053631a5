package models

// FlowStepID addresses a progress-log entry. The four fixed actors get
// well-known ids assigned when their step is created; ad hoc system entries
// get generated ids. Updates always go through the id, never through the
// display label, so a repeated actor name can't clobber an older entry.
type FlowStepID string

const (
	StepUserQuery        FlowStepID = "user-query"
	StepInformationAgent FlowStepID = "information-agent"
	StepRecommenderAgent FlowStepID = "recommender-agent"
	StepPlacesAPI        FlowStepID = "places-api"
)

// StepStatus is the lifecycle state of a single flow step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
	StepError      StepStatus = "error"
)

// FlowStep is one row of the visible progress log shown during processing.
type FlowStep struct {
	ID        FlowStepID `json:"id"`
	Actor     string     `json:"actor"`
	Action    string     `json:"action"`
	Status    StepStatus `json:"status"`
	Timestamp string     `json:"timestamp,omitempty"`
	Details   string     `json:"details,omitempty"`
}
