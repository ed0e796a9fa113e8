package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
)

type deploymentOptions struct {
	DeploymentID   string
	Report         string
	PublishingType string
}

type statusOptions struct {
	deploymentOptions
	Output string
}

func addDeploymentFlags(cmd *cobra.Command, opts *deploymentOptions) {
	cmd.Flags().StringVar(&opts.DeploymentID, "deployment-id", "", "Deployment id returned by upload")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Read the deployment id from an upload report")
	_ = viper.BindPFlag("deployment_id", cmd.Flags().Lookup("deployment-id"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
}

func (o deploymentOptions) request(cmd *cobra.Command) (app.DeploymentRequest, error) {
	credentials, err := resolveCredentials(cmd)
	if err != nil {
		return app.DeploymentRequest{}, err
	}
	publishingType, err := types.ParsePublishingType(o.PublishingType)
	if err != nil {
		return app.DeploymentRequest{}, err
	}
	return app.DeploymentRequest{
		BaseURL:        resolveString(cmd, flagString(cmd, "base-url"), "base_url", "base-url"),
		Credentials:    credentials,
		DeploymentID:   resolveString(cmd, o.DeploymentID, "deployment_id", "deployment-id"),
		ReportPath:     resolveString(cmd, o.Report, "report", "report"),
		PublishingType: publishingType,
	}, nil
}

func newStatusCommand() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current status of a deployment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd, opts)
		},
	}
	addDeploymentFlags(cmd, &opts.deploymentOptions)
	cmd.Flags().StringVar(&opts.PublishingType, "publishing-type", "", "Publishing type used to interpret VALIDATED (default from report, else AUTOMATIC)")
	cmd.Flags().StringVar(&opts.Output, "output", "text", "Output format (text, json or yaml)")
	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, opts statusOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	req, err := opts.request(cmd)
	if err != nil {
		return err
	}
	result, err := service.Status(ctx, req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format := strings.ToLower(strings.TrimSpace(opts.Output)); format {
	case "json", "yaml":
		data, err := adapters.MarshalReport(types.ReportFormat(format), result.Status)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "", "text":
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + opts.Output)
	}
	fmt.Fprintf(out, "deployment: %s\n", result.Status.DeploymentID)
	if result.Status.DeploymentName != "" {
		fmt.Fprintf(out, "name: %s\n", result.Status.DeploymentName)
	}
	fmt.Fprintf(out, "state: %s (%s)\n", result.Status.DeploymentState, result.Outcome)
	for _, pkg := range result.Packages {
		fmt.Fprintf(out, "- %s\n", pkg.Coordinates())
	}
	keys := make([]string, 0, len(result.Status.Errors))
	for key := range result.Status.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "error %s: %v\n", key, result.Status.Errors[key])
	}
	return nil
}
