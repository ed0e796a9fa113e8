package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

// TopologyFileAdapter reads a module topology description from YAML.
type TopologyFileAdapter struct{}

func NewTopologyFileAdapter() TopologyFileAdapter {
	return TopologyFileAdapter{}
}

func (a TopologyFileAdapter) LoadTopology(path string) (types.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Topology{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("topology file not found: " + path).
			WithCause(err)
	}
	var topology types.Topology
	if err := yaml.Unmarshal(data, &topology); err != nil {
		return types.Topology{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse topology yaml").
			WithCause(err)
	}
	for i := range topology.Modules {
		topology.Modules[i].Path = strings.TrimSpace(topology.Modules[i].Path)
		topology.Modules[i].Parent = strings.TrimSpace(topology.Modules[i].Parent)
	}
	return topology, nil
}

var _ ports.TopologySourcePort = TopologyFileAdapter{}
