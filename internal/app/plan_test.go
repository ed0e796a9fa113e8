package app

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-central-publish/internal/types"
)

type stubTopology struct {
	topology types.Topology
}

func (s stubTopology) LoadTopology(string) (types.Topology, error) {
	return s.topology, nil
}

func TestPlan(t *testing.T) {
	svc := Service{Topology: stubTopology{topology: types.Topology{Modules: []types.ModuleNode{
		{Path: ":", Aggregate: true},
		{Path: ":core", Parent: ":", Publications: []string{"maven"}},
	}}}}

	result, err := svc.Plan(PlanRequest{TopologyPath: "topology.yaml"})
	require.NoError(t, err)
	require.Len(t, result.Bundles, 1)
	assert.Equal(t, "root-allPublications", result.Bundles[0].Name)
	assert.Equal(t, types.BundleKindAggregate, result.Bundles[0].Kind)
}

func TestPlanRequiresTopology(t *testing.T) {
	_, err := Service{}.Plan(PlanRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
