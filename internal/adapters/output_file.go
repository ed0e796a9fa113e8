package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

type OutputFileAdapter struct{}

func NewOutputFileAdapter() OutputFileAdapter {
	return OutputFileAdapter{}
}

// WriteReport writes the deployment report as JSON or YAML. An empty format
// is derived from the file extension.
func (a OutputFileAdapter) WriteReport(path string, format types.ReportFormat, report types.DeploymentReport) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is empty")
	}
	resolved, err := ResolveReportFormat(path, format)
	if err != nil {
		return err
	}
	data, err := MarshalReport(resolved, report)
	if err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write deployment report").
			WithCause(err)
	}
	return nil
}

// MarshalReport renders any report-shaped value in the given format.
func MarshalReport(format types.ReportFormat, value any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case types.ReportFormatYAML:
		data, err = yaml.Marshal(value)
	case types.ReportFormatJSON:
		data, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported report format: " + string(format))
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal report").
			WithCause(err)
	}
	return data, nil
}

func ResolveReportFormat(path string, format types.ReportFormat) (types.ReportFormat, error) {
	switch types.ReportFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case types.ReportFormatJSON:
		return types.ReportFormatJSON, nil
	case types.ReportFormatYAML, "yml":
		return types.ReportFormatYAML, nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return types.ReportFormatYAML, nil
		default:
			return types.ReportFormatJSON, nil
		}
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported report format: " + string(format))
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportWriterPort = OutputFileAdapter{}
