package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"maven-central-publish/internal/policies"
)

// Plan loads a module topology and decides which bundles it publishes.
func (s Service) Plan(req PlanRequest) (PlanResult, error) {
	if strings.TrimSpace(req.TopologyPath) == "" {
		return PlanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("topology file is required")
	}
	topology, err := s.Topology.LoadTopology(req.TopologyPath)
	if err != nil {
		return PlanResult{}, err
	}
	bundles, err := policies.PlanBundles(topology)
	if err != nil {
		return PlanResult{}, err
	}
	return PlanResult{Bundles: bundles}, nil
}
