package app

import (
	"time"

	"maven-central-publish/internal/types"
)

const (
	DefaultMaxStatusChecks  = 20
	DefaultStatusCheckDelay = 10 * time.Second
)

type PublishRequest struct {
	BaseURL          string
	Credentials      types.Credentials
	BundlePath       string
	PublishingType   types.PublishingType
	DeploymentName   string
	MaxStatusChecks  int
	StatusCheckDelay time.Duration
	ReportPath       string
	ReportFormat     types.ReportFormat
	Summary          bool
}

// PublishResult describes how far an upload run got. It is also returned
// next to the error of a run that failed after the upload.
type PublishResult struct {
	DeploymentID types.DeploymentID
	State        types.PublishState
	Status       types.DeploymentStatus
	StatusChecks int
	History      []types.DeploymentState
	Packages     []types.PublishedPackage
	Report       types.DeploymentReport
}

// DeploymentRequest addresses an existing deployment, either by id or by
// the report an earlier upload run wrote.
type DeploymentRequest struct {
	BaseURL        string
	Credentials    types.Credentials
	DeploymentID   string
	ReportPath     string
	PublishingType types.PublishingType
}

type StatusResult struct {
	Status   types.DeploymentStatus
	Outcome  types.Outcome
	Packages []types.PublishedPackage
}

type PlanRequest struct {
	TopologyPath string
}

type PlanResult struct {
	Bundles []types.BundlePlan
}
