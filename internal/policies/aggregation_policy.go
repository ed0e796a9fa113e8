package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"go.uber.org/multierr"

	"maven-central-publish/internal/types"
)

const aggregateBundleSuffix = "allPublications"

// PlanBundles decides which deployment bundles a multi-module build uploads.
//
// A module marked aggregate with no aggregating ancestor produces a single
// bundle holding its own publications and those of every descendant; the
// descendants produce nothing on their own. Any other module produces one
// bundle per publication. Plans follow the module declaration order.
func PlanBundles(topology types.Topology) ([]types.BundlePlan, error) {
	graph, err := newModuleGraph(topology)
	if err != nil {
		return nil, err
	}
	var plans []types.BundlePlan
	for _, module := range topology.Modules {
		if graph.hasAggregatingAncestor(module.Path) {
			continue
		}
		if module.Aggregate {
			refs := graph.collect(module.Path)
			if len(refs) == 0 {
				continue
			}
			plans = append(plans, types.BundlePlan{
				Name:         BundleName(module.Path, aggregateBundleSuffix),
				Kind:         types.BundleKindAggregate,
				Module:       module.Path,
				Publications: refs,
			})
			continue
		}
		for _, publication := range module.Publications {
			plans = append(plans, types.BundlePlan{
				Name:         BundleName(module.Path, publication),
				Kind:         types.BundleKindPublication,
				Module:       module.Path,
				Publications: []types.PublicationRef{{Module: module.Path, Publication: publication}},
			})
		}
	}
	if err := checkUniqueNames(plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// checkUniqueNames rejects plans whose derived names collide, e.g. module
// ":a" with publication "b-c" and module ":a:b" with publication "c".
func checkUniqueNames(plans []types.BundlePlan) error {
	owners := make(map[string]string, len(plans))
	var problems error
	for _, plan := range plans {
		if owner, exists := owners[plan.Name]; exists {
			problems = multierr.Append(problems, fmt.Errorf("bundle name %q is produced by modules %q and %q", plan.Name, owner, plan.Module))
			continue
		}
		owners[plan.Name] = plan.Module
	}
	return invalidTopology(problems)
}

func invalidTopology(problems error) error {
	if problems == nil {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid module topology: " + problems.Error()).
		WithCause(problems)
}

// BundleName derives a file-name friendly bundle name, e.g. ":lib:core" and
// "maven" give "lib-core-maven". The root module is named "root".
func BundleName(modulePath string, suffix string) string {
	slug := strings.ReplaceAll(strings.Trim(modulePath, ":"), ":", "-")
	if slug == "" {
		slug = "root"
	}
	return slug + "-" + suffix
}

type moduleGraph struct {
	modules  map[string]types.ModuleNode
	children map[string][]string
}

func newModuleGraph(topology types.Topology) (moduleGraph, error) {
	graph := moduleGraph{
		modules:  make(map[string]types.ModuleNode, len(topology.Modules)),
		children: map[string][]string{},
	}
	var problems error
	for _, module := range topology.Modules {
		if module.Path == "" {
			problems = multierr.Append(problems, fmt.Errorf("module path is empty"))
			continue
		}
		if _, exists := graph.modules[module.Path]; exists {
			problems = multierr.Append(problems, fmt.Errorf("duplicate module %q", module.Path))
			continue
		}
		graph.modules[module.Path] = module
		for _, publication := range module.Publications {
			if strings.TrimSpace(publication) == "" {
				problems = multierr.Append(problems, fmt.Errorf("module %q has an empty publication name", module.Path))
			}
		}
	}
	for _, module := range topology.Modules {
		if module.Parent == "" {
			continue
		}
		if _, ok := graph.modules[module.Parent]; !ok {
			problems = multierr.Append(problems, fmt.Errorf("module %q has unknown parent %q", module.Path, module.Parent))
			continue
		}
		graph.children[module.Parent] = append(graph.children[module.Parent], module.Path)
	}
	for _, module := range topology.Modules {
		if graph.inCycle(module.Path) {
			problems = multierr.Append(problems, fmt.Errorf("module %q is part of a parent cycle", module.Path))
		}
	}
	if err := invalidTopology(problems); err != nil {
		return moduleGraph{}, err
	}
	return graph, nil
}

func (g moduleGraph) inCycle(path string) bool {
	seen := map[string]bool{path: true}
	current := g.modules[path].Parent
	for current != "" {
		if current == path {
			return true
		}
		if seen[current] {
			return false
		}
		seen[current] = true
		parent, ok := g.modules[current]
		if !ok {
			return false
		}
		current = parent.Parent
	}
	return false
}

func (g moduleGraph) hasAggregatingAncestor(path string) bool {
	for current := g.modules[path].Parent; current != ""; current = g.modules[current].Parent {
		if g.modules[current].Aggregate {
			return true
		}
	}
	return false
}

// collect returns the publications of path and its descendants, depth first
// in declaration order.
func (g moduleGraph) collect(path string) []types.PublicationRef {
	var refs []types.PublicationRef
	for _, publication := range g.modules[path].Publications {
		refs = append(refs, types.PublicationRef{Module: path, Publication: publication})
	}
	for _, child := range g.children[path] {
		refs = append(refs, g.collect(child)...)
	}
	return refs
}
