package ports

import "maven-central-publish/internal/types"

type ReportWriterPort interface {
	WriteReport(path string, format types.ReportFormat, report types.DeploymentReport) error
}

type ReportReaderPort interface {
	ReadReport(path string) (types.DeploymentReport, error)
}
