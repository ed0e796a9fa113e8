package core

import "maven-central-publish/internal/types"

// DecideOutcome maps a server deployment state to the client decision.
// VALIDATED is terminal only for USER_MANAGED deployments, which wait there
// for a manual release; AUTOMATIC ones keep advancing to PUBLISHED.
func DecideOutcome(state types.DeploymentState, publishingType types.PublishingType) types.Outcome {
	userManaged := publishingType.Effective() == types.PublishingTypeUserManaged
	switch state {
	case types.DeploymentStatePending:
		return types.OutcomeInProgress
	case types.DeploymentStateValidating:
		return types.OutcomeInProgress
	case types.DeploymentStateValidated:
		if userManaged {
			return types.OutcomeSuccess
		}
		return types.OutcomeInProgress
	case types.DeploymentStatePublishing:
		return types.OutcomeInProgress
	case types.DeploymentStatePublished:
		return types.OutcomeSuccess
	case types.DeploymentStateFailed:
		return types.OutcomeFailed
	case types.DeploymentStateUnknown:
		return types.OutcomeFailed
	default:
		// Not a value ParseDeploymentState can produce.
		return types.OutcomeFailed
	}
}
