// Package shared provides small helpers used by the app and cli packages.
package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorMessage returns the message of a coded error without its code
// prefix, falling back to err.Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

// HTTPFailureMessage describes a rejected publisher API call, keeping the
// raw response body for diagnosis.
func HTTPFailureMessage(action string, status int, body string) string {
	return fmt.Sprintf("failed to %s: HTTP %d, response: %s", action, status, strings.TrimSpace(body))
}

// UnexpectedFailureMessage describes a publisher API call that never got a
// usable response.
func UnexpectedFailureMessage(action string, cause error) string {
	return fmt.Sprintf("failed to %s: %v", action, cause)
}

// Timestamp renders t the way reports store it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
