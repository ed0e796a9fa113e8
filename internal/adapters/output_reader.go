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

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadReport(path string) (types.DeploymentReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.DeploymentReport{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("deployment report not found: " + path).
			WithCause(err)
	}
	report := types.DeploymentReport{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &report)
	default:
		err = json.Unmarshal(content, &report)
	}
	if err != nil {
		return types.DeploymentReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid deployment report format").
			WithCause(err)
	}
	if strings.TrimSpace(report.DeploymentID) == "" {
		return types.DeploymentReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("deployment report missing deployment id")
	}
	return report, nil
}

var _ ports.ReportReaderPort = OutputReaderAdapter{}
