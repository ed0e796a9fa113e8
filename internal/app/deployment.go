package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"maven-central-publish/internal/core"
	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/shared"
	"maven-central-publish/internal/types"
)

// Status fetches the current status of a deployment once.
func (s Service) Status(ctx context.Context, req DeploymentRequest) (StatusResult, error) {
	target, err := s.resolveDeployment(req)
	if err != nil {
		return StatusResult{}, err
	}
	client, err := s.ClientFactory(req.BaseURL)
	if err != nil {
		return StatusResult{}, err
	}
	defer client.Close()

	status := client.DeploymentStatus(ctx, req.Credentials, target.id)
	if err := resultError("check deployment status", status); err != nil {
		return StatusResult{}, err
	}
	packages, problems := core.ParsePurls(status.Data.Purls)
	for _, problem := range problems {
		log.Warn().Err(problem).Msg("ignoring package url of deployment")
	}
	return StatusResult{
		Status:   status.Data,
		Outcome:  core.DecideOutcome(status.Data.DeploymentState, target.publishingType),
		Packages: packages,
	}, nil
}

// Release publishes a validated deployment that waits for a manual release.
func (s Service) Release(ctx context.Context, req DeploymentRequest) (types.DeploymentID, error) {
	return s.deploymentAction(ctx, req, "publish deployment", ports.CentralAPIPort.PublishDeployment)
}

// Drop deletes a deployment that has not been published.
func (s Service) Drop(ctx context.Context, req DeploymentRequest) (types.DeploymentID, error) {
	return s.deploymentAction(ctx, req, "drop deployment", ports.CentralAPIPort.DropDeployment)
}

type deploymentCall func(client ports.CentralAPIPort, ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty]

func (s Service) deploymentAction(ctx context.Context, req DeploymentRequest, action string, call deploymentCall) (types.DeploymentID, error) {
	target, err := s.resolveDeployment(req)
	if err != nil {
		return types.DeploymentID{}, err
	}
	client, err := s.ClientFactory(req.BaseURL)
	if err != nil {
		return types.DeploymentID{}, err
	}
	defer client.Close()

	if err := resultError(action, call(client, ctx, req.Credentials, target.id)); err != nil {
		return types.DeploymentID{}, err
	}
	log.Info().Str("deployment_id", target.id.String()).Msg(action + " succeeded")
	return target.id, nil
}

type deploymentTarget struct {
	id             types.DeploymentID
	publishingType types.PublishingType
}

// resolveDeployment takes the id from the request or, failing that, from
// the report of an earlier upload run.
func (s Service) resolveDeployment(req DeploymentRequest) (deploymentTarget, error) {
	if req.Credentials == nil || strings.TrimSpace(req.Credentials.BearerToken()) == "" {
		return deploymentTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("credentials are required")
	}
	target := deploymentTarget{publishingType: req.PublishingType}
	rawID := strings.TrimSpace(req.DeploymentID)
	if rawID == "" && strings.TrimSpace(req.ReportPath) != "" {
		report, err := s.ReportReader.ReadReport(req.ReportPath)
		if err != nil {
			return deploymentTarget{}, err
		}
		rawID = report.DeploymentID
		if target.publishingType == types.PublishingTypeUnspecified {
			target.publishingType = report.PublishingType
		}
	}
	if rawID == "" {
		return deploymentTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("deployment id or report is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return deploymentTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid deployment id: " + rawID).
			WithCause(err)
	}
	target.id = id
	return target, nil
}

func resultError[T any](action string, result types.HTTPResponseResult[T]) error {
	switch result.Kind {
	case types.ResultKindSuccess:
		return nil
	case types.ResultKindError:
		code := errbuilder.CodeInternal
		if result.HTTPStatus == http.StatusNotFound {
			code = errbuilder.CodeNotFound
		}
		return errbuilder.New().
			WithCode(code).
			WithMsg(shared.HTTPFailureMessage(action, result.HTTPStatus, result.Body))
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(shared.UnexpectedFailureMessage(action, result.Cause)).
			WithCause(result.Cause)
	}
}
