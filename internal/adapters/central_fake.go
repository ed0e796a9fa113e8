package adapters

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

// FakeCentralClientAdapter answers every call locally: uploads get a fresh
// id, every deployment reports PUBLISHED, publish and drop succeed. Bundle
// preconditions are still enforced.
type FakeCentralClientAdapter struct{}

func NewFakeCentralClientAdapter() FakeCentralClientAdapter {
	return FakeCentralClientAdapter{}
}

func (FakeCentralClientAdapter) UploadDeploymentBundle(_ context.Context, _ types.Credentials, bundlePath string, _ types.PublishingType, _ string) (types.HTTPResponseResult[types.DeploymentID], error) {
	if _, err := checkBundleFile(bundlePath); err != nil {
		return types.HTTPResponseResult[types.DeploymentID]{}, err
	}
	return types.SuccessResult(uuid.New(), http.StatusCreated, http.Header{}), nil
}

func (FakeCentralClientAdapter) DeploymentStatus(_ context.Context, _ types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.DeploymentStatus] {
	return types.SuccessResult(types.DeploymentStatus{
		DeploymentID:    deploymentID,
		DeploymentState: types.DeploymentStatePublished,
	}, http.StatusOK, http.Header{})
}

func (FakeCentralClientAdapter) PublishDeployment(_ context.Context, _ types.Credentials, _ types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	return types.SuccessResult(types.Empty{}, http.StatusNoContent, http.Header{})
}

func (FakeCentralClientAdapter) DropDeployment(_ context.Context, _ types.Credentials, _ types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	return types.SuccessResult(types.Empty{}, http.StatusNoContent, http.Header{})
}

func (FakeCentralClientAdapter) Close() {}

var _ ports.CentralAPIPort = FakeCentralClientAdapter{}
