package types

// Outcome is the client-side reading of a deployment state.
type Outcome string

const (
	OutcomeInProgress Outcome = "IN_PROGRESS"
	OutcomeSuccess    Outcome = "SUCCESS"
	OutcomeFailed     Outcome = "FAILED"
)

// PublishState tracks the upload orchestrator.
type PublishState string

const (
	PublishStateUploading PublishState = "UPLOADING"
	PublishStatePolling   PublishState = "POLLING"
	PublishStateSucceeded PublishState = "SUCCEEDED"
	PublishStateFailed    PublishState = "FAILED"
)

func (s PublishState) Terminal() bool {
	return s == PublishStateSucceeded || s == PublishStateFailed
}
