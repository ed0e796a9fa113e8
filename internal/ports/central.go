package ports

import (
	"context"

	"maven-central-publish/internal/types"
)

// CentralAPIPort is the publisher API. Implementations never return Go
// errors for network or protocol failures; those come back as Error or
// UnexpectedError results. Close releases pooled connections.
type CentralAPIPort interface {
	UploadDeploymentBundle(ctx context.Context, credentials types.Credentials, bundlePath string, publishingType types.PublishingType, deploymentName string) (types.HTTPResponseResult[types.DeploymentID], error)
	DeploymentStatus(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.DeploymentStatus]
	PublishDeployment(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty]
	DropDeployment(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty]
	Close()
}

// CentralClientFactory builds a client for a base URL.
type CentralClientFactory func(baseURL string) (CentralAPIPort, error)
