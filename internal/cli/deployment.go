package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
)

func newReleaseCommand() *cobra.Command {
	opts := deploymentOptions{}
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Publish a validated USER_MANAGED deployment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploymentAction(cmd.Context(), cmd, opts, "released", app.Service.Release)
		},
	}
	addDeploymentFlags(cmd, &opts)
	return cmd
}

func newDropCommand() *cobra.Command {
	opts := deploymentOptions{}
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop a deployment that has not been published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploymentAction(cmd.Context(), cmd, opts, "dropped", app.Service.Drop)
		},
	}
	addDeploymentFlags(cmd, &opts)
	return cmd
}

func runDeploymentAction(
	ctx context.Context,
	cmd *cobra.Command,
	opts deploymentOptions,
	verb string,
	action func(app.Service, context.Context, app.DeploymentRequest) (types.DeploymentID, error),
) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	req, err := opts.request(cmd)
	if err != nil {
		return err
	}
	id, err := action(service, ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s deployment: %s\n", verb, id)
	return nil
}
