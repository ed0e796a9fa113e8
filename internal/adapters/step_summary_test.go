package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-central-publish/internal/types"
)

func TestStepSummaryAdapterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(path, []byte("# previous step\n"), 0644))
	adapter := NewStepSummaryAdapter(path)
	require.True(t, adapter.Enabled())

	require.NoError(t, adapter.WriteSummary(sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# previous step\n"))
	assert.Contains(t, content, "* Deployment ID: `28570f16-da32-4c14-bd2e-c1acc0782365`")
	assert.Contains(t, content, "Final status: *SUCCEEDED* / VALIDATED")
	assert.Contains(t, content, "| com.example | lib | 1.0.0 |")
}

func TestStepSummaryAdapterDisabled(t *testing.T) {
	t.Setenv(GitHubStepSummaryEnv, "")
	adapter := NewStepSummaryAdapterFromEnv()
	assert.False(t, adapter.Enabled())
	require.NoError(t, adapter.WriteSummary(sampleReport()))
}

func TestRenderSummaryErrors(t *testing.T) {
	report := sampleReport()
	report.Result = types.PublishStateFailed
	report.DeploymentState = types.DeploymentStateFailed
	report.Purls = nil
	report.Errors = map[string]any{
		"pkg:maven/com.example/lib@1.0.0": []any{"missing signature"},
		"common":                          "bad pom",
	}

	content := RenderSummary(report)
	assert.Contains(t, content, "❌")
	assert.Less(t, strings.Index(content, "`common`"), strings.Index(content, "`pkg:maven"))
	assert.Contains(t, content, "[missing signature]")
	assert.NotContains(t, content, "| Group |")
}
