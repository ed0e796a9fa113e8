package types

// ModuleNode is one module of a multi-module build as seen by the bundle
// aggregation policy.
type ModuleNode struct {
	Path         string   `yaml:"path"`
	Parent       string   `yaml:"parent,omitempty"`
	Aggregate    bool     `yaml:"aggregate,omitempty"`
	Publications []string `yaml:"publications,omitempty"`
}

type Topology struct {
	Modules []ModuleNode `yaml:"modules"`
}

type BundleKind string

const (
	BundleKindPublication BundleKind = "publication"
	BundleKindAggregate   BundleKind = "aggregate"
)

// BundlePlan is a single "publish this bundle" decision.
type BundlePlan struct {
	Name         string
	Kind         BundleKind
	Module       string
	Publications []PublicationRef
}

type PublicationRef struct {
	Module      string
	Publication string
}
