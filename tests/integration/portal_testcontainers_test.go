//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
	"maven-central-publish/tests/testutil"
)

type portalRequest struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Auth   string `json:"auth"`
}

func TestE2EPublishAgainstContainerPortal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startPortalMock(ctx, t)
	t.Cleanup(cleanup)

	t.Setenv(adapters.GitHubStepSummaryEnv, "")
	service := app.NewService(adapters.CentralClientConfig{
		Retries:    3,
		RetryDelay: 50 * time.Millisecond,
	})
	result, err := service.Publish(ctx, app.PublishRequest{
		BaseURL:          endpoint,
		Credentials:      types.UsernamePasswordCredentials{Username: "user", Password: "secret"},
		BundlePath:       testutil.WriteBundle(t, map[string]string{"com/example/lib/1.0.0/lib-1.0.0.pom": "<project/>"}),
		PublishingType:   types.PublishingTypeAutomatic,
		DeploymentName:   "lib-1.0.0",
		MaxStatusChecks:  10,
		StatusCheckDelay: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, types.PublishStateSucceeded, result.State)
	assert.Equal(t, types.DeploymentStatePublished, result.Status.DeploymentState)
	require.Len(t, result.Packages, 1)
	assert.Equal(t, "com.example:lib:1.0.0", result.Packages[0].Coordinates())

	requests := fetchPortalRequests(ctx, t, endpoint)
	require.NotEmpty(t, requests)
	// The mock answers the first upload with 503, so the bundle goes up twice.
	assert.Equal(t, "/api/v1/publisher/upload", requests[0].Path)
	assert.Equal(t, "/api/v1/publisher/upload", requests[1].Path)
	for _, req := range requests {
		assert.Equal(t, "Bearer dXNlcjpzZWNyZXQ=", req.Auth)
	}
}

func fetchPortalRequests(ctx context.Context, t *testing.T, endpoint string) []portalRequest {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/requests", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var requests []portalRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&requests))
	return requests
}

func startPortalMock(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", portalMockScript},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

const portalMockScript = `
import json
from http.server import BaseHTTPRequestHandler, HTTPServer
from urllib.parse import urlparse, parse_qs

DEPLOYMENT_ID = "28570f16-da32-4c14-bd2e-c1acc0782365"
STATES = ["PENDING", "VALIDATING", "VALIDATED", "PUBLISHING", "PUBLISHED"]
requests = []
uploads = 0
checks = 0

class Handler(BaseHTTPRequestHandler):
    def log_message(self, *args):
        pass

    def record(self):
        requests.append({
            "method": self.command,
            "path": urlparse(self.path).path,
            "auth": self.headers.get("Authorization", ""),
        })

    def reply(self, code, body=b"", content_type="text/plain"):
        self.send_response(code)
        self.send_header("Content-Type", content_type)
        self.send_header("Content-Length", str(len(body)))
        self.end_headers()
        self.wfile.write(body)

    def do_GET(self):
        if self.path == "/requests":
            self.reply(200, json.dumps(requests).encode(), "application/json")
            return
        self.reply(404)

    def do_POST(self):
        global uploads, checks
        self.record()
        length = int(self.headers.get("Content-Length", "0"))
        self.rfile.read(length)
        url = urlparse(self.path)
        if url.path == "/api/v1/publisher/upload":
            uploads += 1
            if uploads == 1:
                self.reply(503, b"busy")
                return
            self.reply(201, DEPLOYMENT_ID.encode())
            return
        if url.path == "/api/v1/publisher/status":
            state = STATES[min(checks, len(STATES) - 1)]
            checks += 1
            body = {
                "deploymentId": parse_qs(url.query).get("id", [""])[0],
                "deploymentName": "lib-1.0.0",
                "deploymentState": state,
                "purls": ["pkg:maven/com.example/lib@1.0.0"],
            }
            self.reply(200, json.dumps(body).encode(), "application/json")
            return
        if url.path.startswith("/api/v1/publisher/deployment/"):
            self.reply(204)
            return
        self.reply(404)

    def do_DELETE(self):
        self.record()
        self.reply(204)

HTTPServer(("0.0.0.0", 8080), Handler).serve_forever()
`
