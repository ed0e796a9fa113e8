package cli

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/app"
	"maven-central-publish/internal/metrics"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "CENTRAL_PUBLISH"

type RootConfig struct {
	ConfigFile     string
	LogLevel       string
	BaseURL        string
	Username       string
	Password       string
	Token          string
	Retries        int
	RetryDelay     string
	RequestTimeout string
	ConnectTimeout string
	MetricsFile    string
}

func Execute() {
	root := newRootCommand()
	err := root.Execute()
	writeMetrics()
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "central-publish",
		Short:   "Upload deployment bundles to the Maven Central publisher API",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.BaseURL, "base-url", adapters.DefaultCentralBaseURL, "Publisher API base URL (http://test uses an offline fake)")
	flags.StringVar(&cfg.Username, "username", "", "Portal user token name")
	flags.StringVar(&cfg.Password, "password", "", "Portal user token password")
	flags.StringVar(&cfg.Token, "token", "", "Pre-encoded bearer token (instead of username/password)")
	flags.IntVar(&cfg.Retries, "retries", 3, "Attempts per API request")
	flags.StringVar(&cfg.RetryDelay, "retry-delay", "2s", "Base delay of the exponential retry backoff")
	flags.StringVar(&cfg.RequestTimeout, "request-timeout", "5m", "Timeout of a single API request")
	flags.StringVar(&cfg.ConnectTimeout, "connect-timeout", "30s", "Timeout for establishing a connection")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("username", flags.Lookup("username"))
	_ = viper.BindPFlag("password", flags.Lookup("password"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("retry_delay", flags.Lookup("retry-delay"))
	_ = viper.BindPFlag("request_timeout", flags.Lookup("request-timeout"))
	_ = viper.BindPFlag("connect_timeout", flags.Lookup("connect-timeout"))
	_ = viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))

	cmd.AddCommand(newUploadCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newReleaseCommand())
	cmd.AddCommand(newDropCommand())
	cmd.AddCommand(newPlanCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("central-publish")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/central-publish")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func writeMetrics() {
	path := viper.GetString("metrics_file")
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write metrics")
	}
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		if app.IsTimeoutOfPatience(err) {
			return 4
		}
		return 3
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
