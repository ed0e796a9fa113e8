package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryHandler is a bounded retry policy with pure exponential backoff:
// the wait after a failed attempt n (1-based) is baseDelay * 2^(n-1).
type RetryHandler struct {
	maxRetries int
	baseDelay  time.Duration
	sleep      Sleeper
}

func NewRetryHandler(maxRetries int, baseDelay time.Duration) (RetryHandler, error) {
	if maxRetries < 1 {
		return RetryHandler{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("maxRetries must be at least 1, got: %d", maxRetries))
	}
	if baseDelay <= 0 {
		return RetryHandler{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("baseDelay must be positive, got: %s", baseDelay))
	}
	return RetryHandler{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      SleepContext,
	}, nil
}

// WithSleeper returns a copy of the handler that waits through sleeper.
func (h RetryHandler) WithSleeper(sleeper Sleeper) RetryHandler {
	if sleeper != nil {
		h.sleep = sleeper
	}
	return h
}

func (h RetryHandler) MaxRetries() int {
	return h.maxRetries
}

func (h RetryHandler) BaseDelay() time.Duration {
	return h.baseDelay
}

// BackoffDelay is the wait after the given failed attempt.
func (h RetryHandler) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return h.baseDelay * time.Duration(int64(1)<<(attempt-1))
}

// ExecuteWithRetry runs operation until it succeeds, returns an error that
// shouldRetry rejects, or fails maxRetries times. A nil shouldRetry retries
// every error. onRetry is called before each wait and may be nil.
func ExecuteWithRetry[T any](
	ctx context.Context,
	h RetryHandler,
	operation func(attempt int) (T, error),
	shouldRetry func(err error) bool,
	onRetry func(attempt int, err error),
) (T, error) {
	var zero T
	if h.maxRetries < 1 {
		return zero, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("retry handler is not initialized")
	}
	sleep := h.sleep
	if sleep == nil {
		sleep = SleepContext
	}
	for attempt := 1; ; attempt++ {
		result, err := operation(attempt)
		if err == nil {
			return result, nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			log.Debug().Err(err).Int("attempt", attempt).Msg("error is not retriable, failing immediately")
			return zero, err
		}
		if attempt >= h.maxRetries {
			log.Warn().Err(err).Int("attempts", h.maxRetries).Msg("operation failed after all attempts")
			return zero, err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		delay := h.BackoffDelay(attempt)
		log.Debug().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", h.maxRetries).
			Dur("delay", delay).
			Msg("retrying after backoff")
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// SleepContext waits for d, returning early with the context error when ctx
// is cancelled.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
