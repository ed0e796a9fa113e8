package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
	"maven-central-publish/tests/testutil"
)

const flowDeploymentID = "28570f16-da32-4c14-bd2e-c1acc0782365"

func newFlowService(t *testing.T, summaryPath string) app.Service {
	t.Helper()
	t.Setenv(adapters.GitHubStepSummaryEnv, summaryPath)
	service := app.NewService(adapters.CentralClientConfig{
		Retries:    1,
		RetryDelay: time.Millisecond,
	})
	service.Sleep = func(context.Context, time.Duration) error { return nil }
	service.Clock = func() time.Time { return time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC) }
	return service
}

func TestPublishFlowAutomatic(t *testing.T) {
	portal := testutil.NewPortal(t, flowDeploymentID, "PENDING", "VALIDATING", "VALIDATED", "PUBLISHING", "PUBLISHED")
	root := t.TempDir()
	summaryPath := filepath.Join(root, "summary.md")
	reportPath := filepath.Join(root, "deployment.json")
	service := newFlowService(t, summaryPath)

	result, err := service.Publish(t.Context(), app.PublishRequest{
		BaseURL:          portal.URL,
		Credentials:      types.UsernamePasswordCredentials{Username: "user", Password: "secret"},
		BundlePath:       testutil.WriteBundle(t, map[string]string{"com/example/lib/1.0.0/lib-1.0.0.pom": "<project/>"}),
		PublishingType:   types.PublishingTypeAutomatic,
		DeploymentName:   "lib-1.0.0",
		MaxStatusChecks:  10,
		StatusCheckDelay: time.Second,
		ReportPath:       reportPath,
		Summary:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.PublishStateSucceeded, result.State)
	assert.Equal(t, 5, result.StatusChecks)
	wantHistory := []types.DeploymentState{
		types.DeploymentStatePending,
		types.DeploymentStateValidating,
		types.DeploymentStateValidated,
		types.DeploymentStatePublishing,
		types.DeploymentStatePublished,
	}
	if diff := cmp.Diff(wantHistory, result.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	requests := portal.Requests()
	require.Len(t, requests, 6)
	assert.Equal(t, "/api/v1/publisher/upload", requests[0].Path)
	assert.Equal(t, "name=lib-1.0.0&publishingType=AUTOMATIC", requests[0].Query)
	for _, req := range requests {
		assert.Equal(t, "Bearer dXNlcjpzZWNyZXQ=", req.Authorization)
	}
	assert.Equal(t, "id="+flowDeploymentID, requests[5].Query)

	report, err := adapters.NewOutputReaderAdapter().ReadReport(reportPath)
	require.NoError(t, err)
	assert.Equal(t, flowDeploymentID, report.DeploymentID)
	assert.Equal(t, types.DeploymentStatePublished, report.DeploymentState)
	assert.Equal(t, []string{"pkg:maven/com.example/lib@1.0.0"}, report.Purls)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "| com.example | lib | 1.0.0 |")
}

func TestPublishFlowUserManagedThenRelease(t *testing.T) {
	portal := testutil.NewPortal(t, flowDeploymentID, "VALIDATING", "VALIDATED")
	reportPath := filepath.Join(t.TempDir(), "deployment.yaml")
	service := newFlowService(t, "")
	credentials := types.BearerTokenCredentials{Token: "token"}

	result, err := service.Publish(t.Context(), app.PublishRequest{
		BaseURL:          portal.URL,
		Credentials:      credentials,
		BundlePath:       testutil.WriteBundle(t, map[string]string{"a.txt": "a"}),
		PublishingType:   types.PublishingTypeUserManaged,
		MaxStatusChecks:  5,
		StatusCheckDelay: time.Second,
		ReportPath:       reportPath,
	})
	require.NoError(t, err)
	assert.Equal(t, types.DeploymentStateValidated, result.Status.DeploymentState)

	released, err := service.Release(t.Context(), app.DeploymentRequest{
		BaseURL:     portal.URL,
		Credentials: credentials,
		ReportPath:  reportPath,
	})
	require.NoError(t, err)
	assert.Equal(t, flowDeploymentID, released.String())

	requests := portal.Requests()
	last := requests[len(requests)-1]
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "/api/v1/publisher/deployment/"+flowDeploymentID, last.Path)
	assert.Equal(t, "Bearer token", last.Authorization)
}

func TestPublishFlowTimeoutOfPatience(t *testing.T) {
	portal := testutil.NewPortal(t, flowDeploymentID, "VALIDATING")
	service := newFlowService(t, "")

	result, err := service.Publish(t.Context(), app.PublishRequest{
		BaseURL:          portal.URL,
		Credentials:      types.BearerTokenCredentials{Token: "token"},
		BundlePath:       testutil.WriteBundle(t, map[string]string{"a.txt": "a"}),
		PublishingType:   types.PublishingTypeAutomatic,
		MaxStatusChecks:  3,
		StatusCheckDelay: time.Second,
	})
	require.Error(t, err)
	assert.True(t, app.IsTimeoutOfPatience(err))
	assert.Equal(t, types.PublishStateFailed, result.State)
	assert.Equal(t, 3, result.StatusChecks)
	assert.Len(t, portal.Requests(), 4)
}
