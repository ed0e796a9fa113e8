package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-central-publish/internal/core"
	"maven-central-publish/internal/metrics"
	"maven-central-publish/internal/shared"
	"maven-central-publish/internal/types"
)

// Publish uploads a deployment bundle and polls its status until the
// deployment reaches a terminal outcome or the status check budget runs out.
// Failures after the upload return the partial result next to the error.
func (s Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	if err := validatePublishRequest(req); err != nil {
		return PublishResult{}, err
	}
	client, err := s.ClientFactory(req.BaseURL)
	if err != nil {
		return PublishResult{}, err
	}
	defer client.Close()

	run := publishRun{service: s, req: req, result: PublishResult{State: types.PublishStateUploading}}

	log.Info().
		Str("bundle", req.BundlePath).
		Str("publishing_type", string(req.PublishingType.Effective())).
		Msg("uploading deployment bundle")
	upload, err := client.UploadDeploymentBundle(ctx, req.Credentials, req.BundlePath, req.PublishingType, req.DeploymentName)
	if err != nil {
		return PublishResult{}, err
	}
	switch upload.Kind {
	case types.ResultKindSuccess:
	case types.ResultKindError:
		return run.fail(errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(shared.HTTPFailureMessage("upload bundle", upload.HTTPStatus, upload.Body)))
	default:
		return run.fail(errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(shared.UnexpectedFailureMessage("upload bundle", upload.Cause)).
			WithCause(upload.Cause))
	}

	run.result.DeploymentID = upload.Data
	run.result.State = types.PublishStatePolling
	log.Info().Str("deployment_id", upload.Data.String()).Msg("bundle uploaded, waiting for deployment")

	sleep := s.Sleep
	if sleep == nil {
		sleep = core.SleepContext
	}
	for attempt := 1; attempt <= req.MaxStatusChecks; attempt++ {
		status := client.DeploymentStatus(ctx, req.Credentials, upload.Data)
		run.result.StatusChecks = attempt
		switch status.Kind {
		case types.ResultKindSuccess:
		case types.ResultKindError:
			return run.fail(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(shared.HTTPFailureMessage("check deployment status", status.HTTPStatus, status.Body)))
		default:
			return run.fail(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(shared.UnexpectedFailureMessage("check deployment status", status.Cause)).
				WithCause(status.Cause))
		}

		state := status.Data.DeploymentState
		run.observe(status.Data)
		metrics.StatusCheck(string(state))
		log.Debug().
			Int("check", attempt).
			Int("max_checks", req.MaxStatusChecks).
			Str("state", string(state)).
			Msg("deployment status checked")

		switch core.DecideOutcome(state, req.PublishingType) {
		case types.OutcomeSuccess:
			if req.PublishingType.Effective() == types.PublishingTypeUserManaged {
				log.Info().
					Str("deployment_id", upload.Data.String()).
					Str("state", string(state)).
					Msg("deployment validated, it may still need a manual release on the portal")
			}
			return run.succeed()
		case types.OutcomeFailed:
			message := "deployment failed with status: " + string(state)
			if len(status.Data.Errors) > 0 {
				message += fmt.Sprintf(", errors: %v", status.Data.Errors)
			}
			return run.fail(errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(message))
		case types.OutcomeInProgress:
			if attempt == req.MaxStatusChecks {
				return run.fail(errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg(fmt.Sprintf("%s after %d status checks, current status: %s", timeoutMessagePrefix, attempt, state)))
			}
			if err := sleep(ctx, req.StatusCheckDelay); err != nil {
				return run.fail(errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("status polling interrupted").
					WithCause(err))
			}
		}
	}
	// MaxStatusChecks >= 1 is validated, every iteration above returns on its last check.
	return run.fail(errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("status polling ended without an outcome"))
}

// timeoutMessagePrefix starts the error of a run that ran out of status
// checks while the deployment was still in progress.
const timeoutMessagePrefix = "deployment did not complete"

// IsTimeoutOfPatience reports whether err is the status check budget
// running out rather than a rejected deployment.
func IsTimeoutOfPatience(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeFailedPrecondition &&
		strings.HasPrefix(shared.ErrorMessage(err), timeoutMessagePrefix)
}

func validatePublishRequest(req PublishRequest) error {
	if strings.TrimSpace(req.BundlePath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle path is required")
	}
	if req.Credentials == nil || strings.TrimSpace(req.Credentials.BearerToken()) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("credentials are required")
	}
	info, err := os.Stat(req.BundlePath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle file does not exist: " + req.BundlePath).
			WithCause(err)
	}
	if !info.Mode().IsRegular() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle path is not a file: " + req.BundlePath)
	}
	if info.Size() == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle file is empty: " + req.BundlePath)
	}
	if req.MaxStatusChecks < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("max status checks must be at least 1, got: %d", req.MaxStatusChecks))
	}
	if req.StatusCheckDelay < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("status check delay must not be negative, got: %s", req.StatusCheckDelay))
	}
	return nil
}

type publishRun struct {
	service Service
	req     PublishRequest
	result  PublishResult
}

func (r *publishRun) observe(status types.DeploymentStatus) {
	r.result.Status = status
	r.result.History = append(r.result.History, status.DeploymentState)
	packages, problems := core.ParsePurls(status.Purls)
	for _, problem := range problems {
		log.Warn().Err(problem).Msg("ignoring package url of deployment")
	}
	r.result.Packages = packages
}

func (r *publishRun) succeed() (PublishResult, error) {
	r.result.State = types.PublishStateSucceeded
	return r.finish(nil)
}

func (r *publishRun) fail(err error) (PublishResult, error) {
	r.result.State = types.PublishStateFailed
	return r.finish(err)
}

func (r *publishRun) finish(runErr error) (PublishResult, error) {
	metrics.DeploymentFinished(string(r.result.State))
	r.result.Report = r.report(runErr)
	if runErr != nil {
		log.Error().
			Str("deployment_id", r.result.Report.DeploymentID).
			Int("status_checks", r.result.StatusChecks).
			Msg(shared.ErrorMessage(runErr))
	} else {
		log.Info().
			Str("deployment_id", r.result.Report.DeploymentID).
			Str("state", string(r.result.Status.DeploymentState)).
			Int("status_checks", r.result.StatusChecks).
			Msg("deployment finished")
	}
	if err := r.writeSideEffects(); err != nil {
		if runErr != nil {
			log.Warn().Err(err).Msg("failed to record deployment outcome")
		} else {
			runErr = err
		}
	}
	return r.result, runErr
}

func (r *publishRun) writeSideEffects() error {
	report := r.result.Report
	if strings.TrimSpace(r.req.ReportPath) != "" && report.DeploymentID != "" {
		if err := r.service.ReportWriter.WriteReport(r.req.ReportPath, r.req.ReportFormat, report); err != nil {
			return err
		}
	}
	if r.req.Summary && r.service.Summary != nil {
		if err := r.service.Summary.WriteSummary(report); err != nil {
			return err
		}
	}
	return nil
}

func (r *publishRun) report(runErr error) types.DeploymentReport {
	clock := r.service.Clock
	if clock == nil {
		clock = time.Now
	}
	report := types.DeploymentReport{
		DeploymentName:  r.req.DeploymentName,
		Bundle:          r.req.BundlePath,
		PublishingType:  r.req.PublishingType.Effective(),
		Result:          r.result.State,
		DeploymentState: r.result.Status.DeploymentState,
		StatusChecks:    r.result.StatusChecks,
		Purls:           r.result.Status.Purls,
		Errors:          r.result.Status.Errors,
		CreatedAt:       shared.Timestamp(clock()),
	}
	if r.result.DeploymentID != (types.DeploymentID{}) {
		report.DeploymentID = r.result.DeploymentID.String()
	}
	if runErr != nil {
		report.Message = shared.ErrorMessage(runErr)
	}
	return report
}
