package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"maven-central-publish/internal/types"
)

func TestDecideOutcome(t *testing.T) {
	tests := []struct {
		state       types.DeploymentState
		automatic   types.Outcome
		userManaged types.Outcome
	}{
		{state: types.DeploymentStatePending, automatic: types.OutcomeInProgress, userManaged: types.OutcomeInProgress},
		{state: types.DeploymentStateValidating, automatic: types.OutcomeInProgress, userManaged: types.OutcomeInProgress},
		{state: types.DeploymentStateValidated, automatic: types.OutcomeInProgress, userManaged: types.OutcomeSuccess},
		{state: types.DeploymentStatePublishing, automatic: types.OutcomeInProgress, userManaged: types.OutcomeInProgress},
		{state: types.DeploymentStatePublished, automatic: types.OutcomeSuccess, userManaged: types.OutcomeSuccess},
		{state: types.DeploymentStateFailed, automatic: types.OutcomeFailed, userManaged: types.OutcomeFailed},
		{state: types.DeploymentStateUnknown, automatic: types.OutcomeFailed, userManaged: types.OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if diff := cmp.Diff(tt.automatic, DecideOutcome(tt.state, types.PublishingTypeAutomatic)); diff != "" {
				t.Fatalf("unexpected AUTOMATIC outcome (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.userManaged, DecideOutcome(tt.state, types.PublishingTypeUserManaged)); diff != "" {
				t.Fatalf("unexpected USER_MANAGED outcome (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.automatic, DecideOutcome(tt.state, types.PublishingTypeUnspecified)); diff != "" {
				t.Fatalf("unspecified publishing type should behave as AUTOMATIC (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecideOutcomeCoversAllStates(t *testing.T) {
	for _, state := range types.AllDeploymentStates {
		for _, publishingType := range []types.PublishingType{types.PublishingTypeAutomatic, types.PublishingTypeUserManaged} {
			switch DecideOutcome(state, publishingType) {
			case types.OutcomeInProgress, types.OutcomeSuccess, types.OutcomeFailed:
			default:
				t.Fatalf("no outcome for %s/%s", state, publishingType)
			}
		}
	}
}
