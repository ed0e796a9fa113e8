package types

// DeploymentReport is the record written after an upload run so later
// commands (status, release, drop) can address the same deployment.
type DeploymentReport struct {
	DeploymentID    string          `json:"deploymentId" yaml:"deployment_id"`
	DeploymentName  string          `json:"deploymentName,omitempty" yaml:"deployment_name,omitempty"`
	Bundle          string          `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	PublishingType  PublishingType  `json:"publishingType" yaml:"publishing_type"`
	Result          PublishState    `json:"result" yaml:"result"`
	DeploymentState DeploymentState `json:"deploymentState" yaml:"deployment_state"`
	StatusChecks    int             `json:"statusChecks" yaml:"status_checks"`
	Purls           []string        `json:"purls,omitempty" yaml:"purls,omitempty"`
	Errors          map[string]any  `json:"errors,omitempty" yaml:"errors,omitempty"`
	Message         string          `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt       string          `json:"createdAt" yaml:"created_at"`
}

type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatYAML ReportFormat = "yaml"
)

// PublishedPackage is a purl from a deployment status broken into Maven
// coordinates.
type PublishedPackage struct {
	Purl      string `json:"purl" yaml:"purl"`
	Type      string `json:"type" yaml:"type"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
}

// Coordinates renders the package as group:artifact:version.
func (p PublishedPackage) Coordinates() string {
	if p.Namespace == "" {
		return p.Name + ":" + p.Version
	}
	return p.Namespace + ":" + p.Name + ":" + p.Version
}
