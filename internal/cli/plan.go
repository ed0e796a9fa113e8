package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-central-publish/internal/app"
)

type planOptions struct {
	Topology string
}

func newPlanCommand() *cobra.Command {
	opts := planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which bundles a multi-module build publishes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Topology, "topology", "topology.yaml", "Module topology file")
	_ = viper.BindPFlag("topology", cmd.Flags().Lookup("topology"))
	return cmd
}

func runPlan(cmd *cobra.Command, opts planOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	result, err := service.Plan(app.PlanRequest{
		TopologyPath: resolveString(cmd, opts.Topology, "topology", "topology"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bundles: %d\n", len(result.Bundles))
	for _, bundle := range result.Bundles {
		fmt.Fprintf(out, "- %s (%s, %s)\n", bundle.Name, bundle.Kind, bundle.Module)
		for _, ref := range bundle.Publications {
			fmt.Fprintf(out, "  %s %s\n", ref.Module, ref.Publication)
		}
	}
	return nil
}
