package ports

import "maven-central-publish/internal/types"

// SummaryPort appends a human-readable summary of a finished upload run,
// e.g. to a CI job summary.
type SummaryPort interface {
	WriteSummary(report types.DeploymentReport) error
}
