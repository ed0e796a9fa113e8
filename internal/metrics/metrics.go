// Package metrics holds the Prometheus instrumentation of the publisher
// client and the upload orchestrator. Metrics live on a private registry and
// are flushed to a node-exporter textfile at the end of a run.
package metrics

import (
	"strconv"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "central_publish"

	LabelOperation       = "operation"
	LabelStatusCode      = "status_code"
	LabelDeploymentState = "deployment_state"
	LabelResult          = "result"
)

var Registry = prometheus.NewRegistry()

func ClientRequest(operation string, statusCode int, started time.Time) {
	clientRequestDuration.With(prometheus.Labels{
		LabelOperation:  operation,
		LabelStatusCode: strconv.Itoa(statusCode),
	}).Observe(time.Since(started).Seconds())
}

func ClientRetry(operation string) {
	ClientRetries(operation).Inc()
}

// ClientRetries is the retry counter of one client operation.
func ClientRetries(operation string) prometheus.Counter {
	return clientRetries.With(prometheus.Labels{LabelOperation: operation})
}

func StatusCheck(state string) {
	StatusChecks(state).Inc()
}

func StatusChecks(state string) prometheus.Counter {
	return statusChecks.With(prometheus.Labels{LabelDeploymentState: state})
}

func DeploymentFinished(result string) {
	Deployments(result).Inc()
}

func Deployments(result string) prometheus.Counter {
	return deployments.With(prometheus.Labels{LabelResult: result})
}

// WriteTextfile writes every registered metric to path in the text
// exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics file").
			WithCause(err)
	}
	return nil
}

var (
	clientRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "request_duration_seconds",
		Help:      "duration of publisher API requests",
		Namespace: namespace,
		Subsystem: "client",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
	},
		[]string{
			LabelOperation,
			LabelStatusCode,
		},
	)

	clientRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "retries_total",
		Help:      "number of retried publisher API requests",
		Namespace: namespace,
		Subsystem: "client",
	},
		[]string{
			LabelOperation,
		},
	)

	statusChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "status_checks_total",
		Help:      "deployment status checks by observed state",
		Namespace: namespace,
	},
		[]string{
			LabelDeploymentState,
		},
	)

	deployments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "deployments_total",
		Help:      "finished upload runs by result",
		Namespace: namespace,
	},
		[]string{
			LabelResult,
		},
	)
)

func init() {
	Registry.MustRegister(clientRequestDuration)
	Registry.MustRegister(clientRetries)
	Registry.MustRegister(statusChecks)
	Registry.MustRegister(deployments)
}
