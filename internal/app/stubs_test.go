package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

var testDeploymentID = uuid.MustParse("12345678-1234-1234-1234-123456789012")

// stubCentralClient replays scripted results and records the calls it gets.
type stubCentralClient struct {
	upload       types.HTTPResponseResult[types.DeploymentID]
	uploadErr    error
	statuses     []types.HTTPResponseResult[types.DeploymentStatus]
	publish      types.HTTPResponseResult[types.Empty]
	drop         types.HTTPResponseResult[types.Empty]
	calls        []string
	statusChecks int
	closed       bool
}

func (c *stubCentralClient) UploadDeploymentBundle(_ context.Context, _ types.Credentials, _ string, publishingType types.PublishingType, _ string) (types.HTTPResponseResult[types.DeploymentID], error) {
	c.calls = append(c.calls, "upload:"+publishingType.ID())
	return c.upload, c.uploadErr
}

func (c *stubCentralClient) DeploymentStatus(_ context.Context, _ types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.DeploymentStatus] {
	c.calls = append(c.calls, "status:"+deploymentID.String())
	idx := c.statusChecks
	if idx >= len(c.statuses) {
		idx = len(c.statuses) - 1
	}
	c.statusChecks++
	return c.statuses[idx]
}

func (c *stubCentralClient) PublishDeployment(_ context.Context, _ types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	c.calls = append(c.calls, "publish:"+deploymentID.String())
	return c.publish
}

func (c *stubCentralClient) DropDeployment(_ context.Context, _ types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	c.calls = append(c.calls, "drop:"+deploymentID.String())
	return c.drop
}

func (c *stubCentralClient) Close() {
	c.closed = true
}

func statusResult(state types.DeploymentState) types.HTTPResponseResult[types.DeploymentStatus] {
	return types.SuccessResult(types.DeploymentStatus{
		DeploymentID:    testDeploymentID,
		DeploymentName:  "lib",
		DeploymentState: state,
	}, http.StatusOK, nil)
}

type stubReportWriter struct {
	reports []types.DeploymentReport
	err     error
}

func (w *stubReportWriter) WriteReport(_ string, _ types.ReportFormat, report types.DeploymentReport) error {
	w.reports = append(w.reports, report)
	return w.err
}

type stubReportReader struct {
	report types.DeploymentReport
	err    error
}

func (r stubReportReader) ReadReport(_ string) (types.DeploymentReport, error) {
	return r.report, r.err
}

type stubSummary struct {
	reports []types.DeploymentReport
}

func (s *stubSummary) WriteSummary(report types.DeploymentReport) error {
	s.reports = append(s.reports, report)
	return nil
}

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestService(client *stubCentralClient) (Service, *recordedSleeps) {
	sleeps := &recordedSleeps{}
	return Service{
		ClientFactory: func(string) (ports.CentralAPIPort, error) { return client, nil },
		ReportWriter:  &stubReportWriter{},
		ReportReader:  stubReportReader{},
		Summary:       &stubSummary{},
		Clock:         func() time.Time { return time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC) },
		Sleep:         sleeps.sleep,
	}, sleeps
}

func writeTestBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testCredentials() types.Credentials {
	return types.UsernamePasswordCredentials{Username: "u", Password: "p"}
}
