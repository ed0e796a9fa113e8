package app

import (
	"time"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/core"
	"maven-central-publish/internal/ports"
)

type Service struct {
	ClientFactory ports.CentralClientFactory
	ReportWriter  ports.ReportWriterPort
	ReportReader  ports.ReportReaderPort
	Summary       ports.SummaryPort
	Topology      ports.TopologySourcePort
	Clock         func() time.Time
	// Sleep waits between status checks.
	Sleep core.Sleeper
}

// NewService wires the production adapters. The base URL of each request
// overrides the one in clientConfig.
func NewService(clientConfig adapters.CentralClientConfig) Service {
	return Service{
		ClientFactory: func(baseURL string) (ports.CentralAPIPort, error) {
			cfg := clientConfig
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			return adapters.NewCentralClient(cfg)
		},
		ReportWriter: adapters.NewOutputFileAdapter(),
		ReportReader: adapters.NewOutputReaderAdapter(),
		Summary:      adapters.NewStepSummaryAdapterFromEnv(),
		Topology:     adapters.NewTopologyFileAdapter(),
		Clock:        time.Now,
		Sleep:        core.SleepContext,
	}
}
