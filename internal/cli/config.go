package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-central-publish/internal/adapters"
	"maven-central-publish/internal/app"
	"maven-central-publish/internal/types"
)

// newAppService builds the service from the persistent client flags.
func newAppService(cmd *cobra.Command) (app.Service, error) {
	cfg, err := clientConfig(cmd)
	if err != nil {
		return app.Service{}, err
	}
	return app.NewService(cfg), nil
}

func clientConfig(cmd *cobra.Command) (adapters.CentralClientConfig, error) {
	retryDelay, err := resolveDuration(cmd, "retry_delay", "retry-delay")
	if err != nil {
		return adapters.CentralClientConfig{}, err
	}
	requestTimeout, err := resolveDuration(cmd, "request_timeout", "request-timeout")
	if err != nil {
		return adapters.CentralClientConfig{}, err
	}
	connectTimeout, err := resolveDuration(cmd, "connect_timeout", "connect-timeout")
	if err != nil {
		return adapters.CentralClientConfig{}, err
	}
	// The adapter reads zero as unset.
	retries := resolveInt(cmd, flagInt(cmd, "retries"), "retries", "retries")
	if retries < 1 {
		return adapters.CentralClientConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("--retries must be at least 1, got: %d", retries))
	}
	if retryDelay <= 0 {
		return adapters.CentralClientConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("--retry-delay must be positive, got: %s", retryDelay))
	}
	return adapters.CentralClientConfig{
		BaseURL:        resolveString(cmd, flagString(cmd, "base-url"), "base_url", "base-url"),
		Retries:        retries,
		RetryDelay:     retryDelay,
		RequestTimeout: requestTimeout,
		ConnectTimeout: connectTimeout,
		UserAgent:      "central-publish/" + version,
	}, nil
}

// resolveCredentials prefers an explicit bearer token over a
// username/password pair.
func resolveCredentials(cmd *cobra.Command) (types.Credentials, error) {
	token := strings.TrimSpace(resolveString(cmd, flagString(cmd, "token"), "token", "token"))
	if token != "" {
		return types.BearerTokenCredentials{Token: token}, nil
	}
	username := strings.TrimSpace(resolveString(cmd, flagString(cmd, "username"), "username", "username"))
	password := resolveString(cmd, flagString(cmd, "password"), "password", "password")
	if username == "" || password == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("credentials are required: set --token or --username and --password")
	}
	return types.UsernamePasswordCredentials{Username: username, Password: password}, nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

// resolveDuration parses a duration flag such as "10s" or "2m".
func resolveDuration(cmd *cobra.Command, key string, flagName string) (time.Duration, error) {
	raw := strings.TrimSpace(resolveString(cmd, flagString(cmd, flagName), key, flagName))
	if raw == "" {
		return 0, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid duration for --" + flagName + ": " + raw).
			WithCause(err)
	}
	return value, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	if flag := cmd.InheritedFlags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	return ""
}

func flagInt(cmd *cobra.Command, name string) int {
	if cmd == nil {
		return 0
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return value
}
