package ports

import "maven-central-publish/internal/types"

type TopologySourcePort interface {
	LoadTopology(path string) (types.Topology, error)
}
