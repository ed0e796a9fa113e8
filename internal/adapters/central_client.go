package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"maven-central-publish/internal/core"
	"maven-central-publish/internal/metrics"
	"maven-central-publish/internal/ports"
	"maven-central-publish/internal/types"
)

const (
	DefaultCentralBaseURL = "https://central.sonatype.com"
	// FakeCentralBaseURL selects the in-process client that never touches the network.
	FakeCentralBaseURL = "http://test"

	defaultCentralRequestTimeout = 5 * time.Minute
	defaultCentralConnectTimeout = 30 * time.Second
	defaultCentralRetries        = 3
	defaultCentralRetryDelay     = 2 * time.Second
	defaultCentralUserAgent      = "central-publish"

	bundlePartName = "bundle"

	operationUpload  = "upload"
	operationStatus  = "status"
	operationPublish = "publish"
	operationDrop    = "drop"
)

type CentralClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	Retries        int
	RetryDelay     time.Duration
	UserAgent      string
	// HTTPClient replaces the pooled client built from the timeouts above.
	HTTPClient *http.Client
	// Sleeper replaces the backoff wait between retries.
	Sleeper core.Sleeper
}

// CentralClientAdapter talks to the publisher API of the central portal.
// It keeps no per-call state and may be shared between goroutines.
type CentralClientAdapter struct {
	baseURL    string
	httpClient *http.Client
	retry      core.RetryHandler
	userAgent  string
}

// NewCentralClient returns the fake client for FakeCentralBaseURL and the
// HTTP client otherwise.
func NewCentralClient(cfg CentralClientConfig) (ports.CentralAPIPort, error) {
	if strings.EqualFold(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"), FakeCentralBaseURL) {
		log.Warn().Str("base_url", cfg.BaseURL).Msg("using fake publisher client, nothing will be uploaded")
		return NewFakeCentralClientAdapter(), nil
	}
	return NewCentralClientAdapter(cfg)
}

func NewCentralClientAdapter(cfg CentralClientConfig) (*CentralClientAdapter, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultCentralBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid publisher base url: " + cfg.BaseURL).
			WithCause(err)
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = defaultCentralRetries
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultCentralRetryDelay
	}
	retry, err := core.NewRetryHandler(retries, retryDelay)
	if err != nil {
		return nil, err
	}
	retry = retry.WithSleeper(cfg.Sleeper)
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultCentralUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newPooledHTTPClient(cfg.RequestTimeout, cfg.ConnectTimeout)
	}
	return &CentralClientAdapter{
		baseURL:    baseURL,
		httpClient: httpClient,
		retry:      retry,
		userAgent:  userAgent,
	}, nil
}

func newPooledHTTPClient(requestTimeout time.Duration, connectTimeout time.Duration) *http.Client {
	if requestTimeout <= 0 {
		requestTimeout = defaultCentralRequestTimeout
	}
	if connectTimeout <= 0 {
		connectTimeout = defaultCentralConnectTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}
}

// UploadDeploymentBundle uploads a bundle zip. Local problems with the bundle
// file are returned as an error before any request is made.
func (c *CentralClientAdapter) UploadDeploymentBundle(ctx context.Context, credentials types.Credentials, bundlePath string, publishingType types.PublishingType, deploymentName string) (types.HTTPResponseResult[types.DeploymentID], error) {
	size, err := checkBundleFile(bundlePath)
	if err != nil {
		return types.HTTPResponseResult[types.DeploymentID]{}, err
	}
	if credentials == nil {
		return types.HTTPResponseResult[types.DeploymentID]{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("credentials are required")
	}
	query := url.Values{}
	if name := strings.TrimSpace(deploymentName); name != "" {
		query.Set("name", name)
	}
	if publishingType != types.PublishingTypeUnspecified {
		query.Set("publishingType", publishingType.ID())
	}
	endpoint := c.endpoint("/api/v1/publisher/upload", query)
	log.Debug().Str("url", endpoint).Str("bundle", bundlePath).Int64("size", size).Msg("sending upload request")

	newRequest := func(ctx context.Context) (*http.Request, error) {
		body, contentType, length, err := newBundleBody(bundlePath, size)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			_ = body.Close()
			return nil, &requestBuildError{err: err}
		}
		req.ContentLength = length
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}
	result := executeRequest(ctx, c, operationUpload, credentials, newRequest, func(resp *http.Response, body string) types.HTTPResponseResult[types.DeploymentID] {
		if resp.StatusCode != http.StatusCreated {
			log.Warn().Int("status", resp.StatusCode).Str("response", body).Msg("failed to upload bundle")
			return types.ErrorResult[types.DeploymentID](body, resp.StatusCode, resp.Header)
		}
		deploymentID, err := parseDeploymentID(body)
		if err != nil {
			log.Warn().Err(err).Str("response", body).Msg("upload response is not a deployment id")
			return types.ErrorResult[types.DeploymentID](body, resp.StatusCode, resp.Header)
		}
		log.Debug().Str("deployment_id", deploymentID.String()).Msg("bundle uploaded")
		return types.SuccessResult(deploymentID, resp.StatusCode, resp.Header)
	})
	return result, nil
}

func (c *CentralClientAdapter) DeploymentStatus(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.DeploymentStatus] {
	query := url.Values{}
	query.Set("id", deploymentID.String())
	endpoint := c.endpoint("/api/v1/publisher/status", query)
	log.Debug().Str("url", endpoint).Msg("sending status request")
	return executeRequest(ctx, c, operationStatus, credentials, emptyRequest(http.MethodPost, endpoint), func(resp *http.Response, body string) types.HTTPResponseResult[types.DeploymentStatus] {
		if resp.StatusCode != http.StatusOK {
			log.Warn().Int("status", resp.StatusCode).Str("response", body).Msg("failed to fetch deployment status")
			return types.ErrorResult[types.DeploymentStatus](body, resp.StatusCode, resp.Header)
		}
		status, err := decodeDeploymentStatus(body)
		if err != nil {
			log.Warn().Err(err).Str("response", body).Msg("failed to parse deployment status")
			return types.ErrorResult[types.DeploymentStatus](body, resp.StatusCode, resp.Header)
		}
		log.Debug().
			Str("deployment_id", status.DeploymentID.String()).
			Str("state", string(status.DeploymentState)).
			Msg("deployment status retrieved")
		return types.SuccessResult(status, resp.StatusCode, resp.Header)
	})
}

func (c *CentralClientAdapter) PublishDeployment(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	endpoint := c.deploymentEndpoint(deploymentID)
	log.Debug().Str("url", endpoint).Msg("sending publish request")
	return executeRequest(ctx, c, operationPublish, credentials, emptyRequest(http.MethodPost, endpoint), noContentHandler("publish deployment"))
}

func (c *CentralClientAdapter) DropDeployment(ctx context.Context, credentials types.Credentials, deploymentID types.DeploymentID) types.HTTPResponseResult[types.Empty] {
	endpoint := c.deploymentEndpoint(deploymentID)
	log.Debug().Str("url", endpoint).Msg("sending drop request")
	return executeRequest(ctx, c, operationDrop, credentials, emptyRequest(http.MethodDelete, endpoint), noContentHandler("drop deployment"))
}

// Close releases the idle connections of the pool.
func (c *CentralClientAdapter) Close() {
	c.httpClient.CloseIdleConnections()
	log.Debug().Msg("publisher client closed")
}

func (c *CentralClientAdapter) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

func (c *CentralClientAdapter) deploymentEndpoint(deploymentID types.DeploymentID) string {
	return c.baseURL + "/api/v1/publisher/deployment/" + url.PathEscape(deploymentID.String())
}

// retriableHTTPError marks a 5xx response so the retry handler tries again.
// It keeps the decoded result for when the retries run out.
type retriableHTTPError[T any] struct {
	status int
	result types.HTTPResponseResult[T]
}

func (e *retriableHTTPError[T]) Error() string {
	return fmt.Sprintf("HTTP %d: server error", e.status)
}

func (e *retriableHTTPError[T]) retriable() bool { return true }

// requestBuildError is a local failure preparing a request; never retried.
type requestBuildError struct {
	err error
}

func (e *requestBuildError) Error() string { return e.err.Error() }

func (e *requestBuildError) Unwrap() error { return e.err }

type retriableMarker interface {
	retriable() bool
}

func executeRequest[T any](
	ctx context.Context,
	c *CentralClientAdapter,
	operation string,
	credentials types.Credentials,
	newRequest func(ctx context.Context) (*http.Request, error),
	handle func(resp *http.Response, body string) types.HTTPResponseResult[T],
) types.HTTPResponseResult[T] {
	assert.NotEmpty(ctx, c.baseURL, "publisher base url must be set")
	if credentials == nil {
		return types.UnexpectedErrorResult[T](errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("credentials are required"))
	}
	result, err := core.ExecuteWithRetry(ctx, c.retry,
		func(attempt int) (types.HTTPResponseResult[T], error) {
			var zero types.HTTPResponseResult[T]
			req, err := newRequest(ctx)
			if err != nil {
				return zero, err
			}
			req.Header.Set("Authorization", "Bearer "+credentials.BearerToken())
			req.Header.Set("User-Agent", c.userAgent)
			started := time.Now()
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return zero, err
			}
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return zero, err
			}
			metrics.ClientRequest(operation, resp.StatusCode, started)
			log.Debug().
				Str("operation", operation).
				Int("status", resp.StatusCode).
				Dur("duration", time.Since(started)).
				Int("attempt", attempt).
				Msg("http request completed")
			result := handle(resp, string(raw))
			if result.Kind == types.ResultKindError && resp.StatusCode >= http.StatusInternalServerError {
				return result, &retriableHTTPError[T]{status: resp.StatusCode, result: result}
			}
			return result, nil
		},
		retriableFor(ctx),
		func(attempt int, err error) {
			metrics.ClientRetry(operation)
			log.Warn().Err(err).Str("operation", operation).Int("attempt", attempt).Msg("http request failed, retrying")
		},
	)
	if err == nil {
		return result
	}
	var serverErr *retriableHTTPError[T]
	if errors.As(err, &serverErr) {
		return serverErr.result
	}
	log.Error().Err(err).Str("operation", operation).Msg("http request failed")
	return types.UnexpectedErrorResult[T](err)
}

// retriableFor classifies transport failures. Nothing is retried once the
// caller's context is done.
func retriableFor(ctx context.Context) func(err error) bool {
	return func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		return isRetriableError(err)
	}
}

func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	var buildErr *requestBuildError
	if errors.As(err, &buildErr) {
		return false
	}
	var marker retriableMarker
	if errors.As(err, &marker) {
		return marker.retriable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// *url.Error is itself a net.Error, so only its Timeout answer counts.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func emptyRequest(method string, endpoint string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, http.NoBody)
		if err != nil {
			return nil, &requestBuildError{err: err}
		}
		return req, nil
	}
}

func noContentHandler(action string) func(resp *http.Response, body string) types.HTTPResponseResult[types.Empty] {
	return func(resp *http.Response, body string) types.HTTPResponseResult[types.Empty] {
		if resp.StatusCode != http.StatusNoContent {
			log.Warn().Int("status", resp.StatusCode).Str("response", body).Msg("failed to " + action)
			return types.ErrorResult[types.Empty](body, resp.StatusCode, resp.Header)
		}
		return types.SuccessResult(types.Empty{}, resp.StatusCode, resp.Header)
	}
}

func checkBundleFile(path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle file does not exist: " + path).
			WithCause(err)
	}
	if !info.Mode().IsRegular() {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle path is not a file: " + path)
	}
	if info.Size() == 0 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("bundle file is empty: " + path)
	}
	return info.Size(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// newBundleBody streams the bundle as the single "bundle" part of a
// multipart/form-data body. The part framing is rendered up front so the
// content length is known without buffering the file.
func newBundleBody(path string, size int64) (io.ReadCloser, string, int64, error) {
	var framing bytes.Buffer
	writer := multipart.NewWriter(&framing)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, bundlePartName, quoteEscaper.Replace(filepath.Base(path))))
	header.Set("Content-Type", "application/octet-stream")
	if _, err := writer.CreatePart(header); err != nil {
		return nil, "", 0, &requestBuildError{err: err}
	}
	head := append([]byte(nil), framing.Bytes()...)
	framing.Reset()
	if err := writer.Close(); err != nil {
		return nil, "", 0, &requestBuildError{err: err}
	}
	tail := append([]byte(nil), framing.Bytes()...)

	file, err := os.Open(path)
	if err != nil {
		return nil, "", 0, &requestBuildError{err: errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to open bundle file: " + path).
			WithCause(err)}
	}
	body := struct {
		io.Reader
		io.Closer
	}{
		Reader: io.MultiReader(bytes.NewReader(head), file, bytes.NewReader(tail)),
		Closer: file,
	}
	return body, writer.FormDataContentType(), int64(len(head)) + size + int64(len(tail)), nil
}

func parseDeploymentID(body string) (types.DeploymentID, error) {
	trimmed := strings.Trim(strings.TrimSpace(body), `"`)
	return uuid.Parse(trimmed)
}

// deploymentStatusDTO keeps the state raw so a value of any JSON type
// decodes through DeploymentState and degrades to UNKNOWN.
type deploymentStatusDTO struct {
	DeploymentID    *string         `json:"deploymentId"`
	DeploymentName  string          `json:"deploymentName"`
	DeploymentState json.RawMessage `json:"deploymentState"`
	Purls           []string        `json:"purls"`
	Errors          map[string]any  `json:"errors"`
}

func decodeDeploymentStatus(body string) (types.DeploymentStatus, error) {
	var dto deploymentStatusDTO
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		return types.DeploymentStatus{}, err
	}
	if dto.DeploymentID == nil {
		return types.DeploymentStatus{}, errors.New("deploymentId is missing")
	}
	if len(dto.DeploymentState) == 0 {
		return types.DeploymentStatus{}, errors.New("deploymentState is missing")
	}
	deploymentID, err := uuid.Parse(strings.TrimSpace(*dto.DeploymentID))
	if err != nil {
		return types.DeploymentStatus{}, fmt.Errorf("invalid deploymentId: %w", err)
	}
	var state types.DeploymentState
	if err := state.UnmarshalJSON(dto.DeploymentState); err != nil {
		return types.DeploymentStatus{}, err
	}
	return types.DeploymentStatus{
		DeploymentID:    deploymentID,
		DeploymentName:  dto.DeploymentName,
		DeploymentState: state,
		Purls:           dto.Purls,
		Errors:          dto.Errors,
	}, nil
}

var _ ports.CentralAPIPort = (*CentralClientAdapter)(nil)
