package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
)

type uploadOptions struct {
	Bundle           string
	PublishingType   string
	Name             string
	MaxStatusChecks  int
	StatusCheckDelay string
	Report           string
	ReportFormat     string
	Summary          bool
}

func newUploadCommand() *cobra.Command {
	opts := uploadOptions{}
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a deployment bundle and wait for it to be validated or published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Bundle, "bundle", "", "Deployment bundle zip to upload")
	cmd.Flags().StringVar(&opts.PublishingType, "publishing-type", string(types.PublishingTypeAutomatic), "Publishing type (AUTOMATIC or USER_MANAGED)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Deployment name shown on the portal")
	cmd.Flags().IntVar(&opts.MaxStatusChecks, "max-status-checks", app.DefaultMaxStatusChecks, "Status checks before giving up")
	cmd.Flags().StringVar(&opts.StatusCheckDelay, "status-check-delay", app.DefaultStatusCheckDelay.String(), "Fixed delay between status checks")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write a deployment report to this path")
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "", "Report format (json or yaml, default from extension)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", true, "Append a summary to $GITHUB_STEP_SUMMARY when set")
	_ = viper.BindPFlag("bundle", cmd.Flags().Lookup("bundle"))
	_ = viper.BindPFlag("publishing_type", cmd.Flags().Lookup("publishing-type"))
	_ = viper.BindPFlag("name", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("max_status_checks", cmd.Flags().Lookup("max-status-checks"))
	_ = viper.BindPFlag("status_check_delay", cmd.Flags().Lookup("status-check-delay"))
	_ = viper.BindPFlag("upload_report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("report_format", cmd.Flags().Lookup("report-format"))
	_ = viper.BindPFlag("summary", cmd.Flags().Lookup("summary"))
	return cmd
}

func runUpload(ctx context.Context, cmd *cobra.Command, opts uploadOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	credentials, err := resolveCredentials(cmd)
	if err != nil {
		return err
	}
	publishingType, err := types.ParsePublishingType(resolveString(cmd, opts.PublishingType, "publishing_type", "publishing-type"))
	if err != nil {
		return err
	}
	delay, err := resolveDuration(cmd, "status_check_delay", "status-check-delay")
	if err != nil {
		return err
	}
	result, err := service.Publish(ctx, app.PublishRequest{
		BaseURL:          resolveString(cmd, flagString(cmd, "base-url"), "base_url", "base-url"),
		Credentials:      credentials,
		BundlePath:       resolveString(cmd, opts.Bundle, "bundle", "bundle"),
		PublishingType:   publishingType,
		DeploymentName:   resolveString(cmd, opts.Name, "name", "name"),
		MaxStatusChecks:  resolveInt(cmd, opts.MaxStatusChecks, "max_status_checks", "max-status-checks"),
		StatusCheckDelay: delay,
		ReportPath:       resolveString(cmd, opts.Report, "upload_report", "report"),
		ReportFormat:     types.ReportFormat(resolveString(cmd, opts.ReportFormat, "report_format", "report-format")),
		Summary:          resolveBool(cmd, opts.Summary, "summary", "summary"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "deployment %s: %s (%s after %d status checks)\n",
		result.DeploymentID, result.State, result.Status.DeploymentState, result.StatusChecks)
	for _, pkg := range result.Packages {
		fmt.Fprintf(out, "- %s\n", pkg.Coordinates())
	}
	if publishingType == types.PublishingTypeUserManaged && result.Status.DeploymentState == types.DeploymentStateValidated {
		fmt.Fprintf(out, "release it with: central-publish release --deployment-id %s\n", result.DeploymentID)
	}
	return nil
}
