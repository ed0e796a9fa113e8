package types

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// DeploymentID identifies a server-side deployment created by an upload.
type DeploymentID = uuid.UUID

type DeploymentState string

const (
	// DeploymentStatePending: uploaded and waiting for the validation service.
	DeploymentStatePending DeploymentState = "PENDING"
	// DeploymentStateValidating: being processed by the validation service.
	DeploymentStateValidating DeploymentState = "VALIDATING"
	// DeploymentStateValidated: passed validation, waiting for a manual release.
	DeploymentStateValidated DeploymentState = "VALIDATED"
	// DeploymentStatePublishing: released and being uploaded to the repository.
	DeploymentStatePublishing DeploymentState = "PUBLISHING"
	// DeploymentStatePublished: available in the repository.
	DeploymentStatePublished DeploymentState = "PUBLISHED"
	// DeploymentStateFailed: rejected, details are in the errors field.
	DeploymentStateFailed  DeploymentState = "FAILED"
	DeploymentStateUnknown DeploymentState = "UNKNOWN"
)

var AllDeploymentStates = []DeploymentState{
	DeploymentStatePending,
	DeploymentStateValidating,
	DeploymentStateValidated,
	DeploymentStatePublishing,
	DeploymentStatePublished,
	DeploymentStateFailed,
	DeploymentStateUnknown,
}

// ParseDeploymentState never fails: unrecognized values degrade to UNKNOWN.
func ParseDeploymentState(value string) DeploymentState {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, state := range AllDeploymentStates {
		if state == DeploymentStateUnknown {
			continue
		}
		if string(state) == normalized {
			return state
		}
	}
	return DeploymentStateUnknown
}

func (s *DeploymentState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = DeploymentStateUnknown
		return nil
	}
	*s = ParseDeploymentState(raw)
	return nil
}

func (s *DeploymentState) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		*s = DeploymentStateUnknown
		return nil
	}
	*s = ParseDeploymentState(raw)
	return nil
}

type DeploymentStatus struct {
	DeploymentID    DeploymentID    `json:"deploymentId" yaml:"deployment_id"`
	DeploymentName  string          `json:"deploymentName" yaml:"deployment_name"`
	DeploymentState DeploymentState `json:"deploymentState" yaml:"deployment_state"`
	Purls           []string        `json:"purls,omitempty" yaml:"purls,omitempty"`
	Errors          map[string]any  `json:"errors,omitempty" yaml:"errors,omitempty"`
}
