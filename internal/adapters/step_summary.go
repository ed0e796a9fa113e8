package adapters

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-central-publish/internal/core"
	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

// GitHubStepSummaryEnv names the file GitHub Actions renders as the job summary.
const GitHubStepSummaryEnv = "GITHUB_STEP_SUMMARY"

// StepSummaryAdapter appends a markdown section per upload run to a job
// summary file. With an empty path it does nothing.
type StepSummaryAdapter struct {
	path string
}

func NewStepSummaryAdapter(path string) StepSummaryAdapter {
	return StepSummaryAdapter{path: strings.TrimSpace(path)}
}

// NewStepSummaryAdapterFromEnv targets the file named by GITHUB_STEP_SUMMARY.
func NewStepSummaryAdapterFromEnv() StepSummaryAdapter {
	return NewStepSummaryAdapter(os.Getenv(GitHubStepSummaryEnv))
}

func (a StepSummaryAdapter) Enabled() bool {
	return a.path != ""
}

func (a StepSummaryAdapter) WriteSummary(report types.DeploymentReport) error {
	if !a.Enabled() {
		return nil
	}
	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open step summary file").
			WithCause(err)
	}
	defer file.Close()
	if _, err := file.WriteString(RenderSummary(report)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write step summary").
			WithCause(err)
	}
	log.Debug().Str("path", a.path).Msg("step summary written")
	return nil
}

// RenderSummary formats a report as a markdown section.
func RenderSummary(report types.DeploymentReport) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	line("## %s Maven Central deployment", resultEmoji(report.Result))
	line("")
	if report.DeploymentName != "" {
		line("* Name: %s", report.DeploymentName)
	}
	line("* Deployment ID: `%s`", report.DeploymentID)
	if report.Bundle != "" {
		line("* Bundle: `%s`", report.Bundle)
	}
	line("* Publishing type: %s", report.PublishingType.Effective())
	line("* Status checks: %d", report.StatusChecks)
	line("")
	line("Final status: *%s* / %s", report.Result, report.DeploymentState)
	if report.Message != "" {
		line("")
		line("> %s", report.Message)
	}
	packages, _ := core.ParsePurls(report.Purls)
	if len(packages) > 0 {
		line("")
		line("| Group | Artifact | Version |")
		line("|---|---|---|")
		for _, pkg := range packages {
			line("| %s | %s | %s |", pkg.Namespace, pkg.Name, pkg.Version)
		}
	}
	if len(report.Errors) > 0 {
		line("")
		line("<details><summary>Errors</summary>")
		line("")
		keys := make([]string, 0, len(report.Errors))
		for key := range report.Errors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			line("* `%s`: %v", key, report.Errors[key])
		}
		line("")
		line("</details>")
	}
	line("")
	return b.String()
}

func resultEmoji(result types.PublishState) string {
	switch result {
	case types.PublishStateSucceeded:
		return "✅"
	case types.PublishStateFailed:
		return "❌"
	default:
		return "⏳"
	}
}

var _ ports.SummaryPort = StepSummaryAdapter{}
