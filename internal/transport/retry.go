package transport

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/chaterr"
)

const defaultBackoffUnit = 1000 * time.Millisecond

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryingTransport bounds every attempt with a timeout and retries
// transport-level failures with linear backoff.
type RetryingTransport struct {
	exchanger   Exchanger
	timeout     time.Duration
	backoffUnit time.Duration
	sleep       SleepFunc
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*RetryingTransport)

// WithBackoffUnit sets the base of the linear backoff (attempt n waits n*unit).
func WithBackoffUnit(d time.Duration) Option {
	return func(t *RetryingTransport) { t.backoffUnit = d }
}

func WithSleep(fn SleepFunc) Option {
	return func(t *RetryingTransport) { t.sleep = fn }
}

func NewRetryingTransport(ex Exchanger, timeout time.Duration, logger *zap.Logger, opts ...Option) *RetryingTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &RetryingTransport{
		exchanger:   ex,
		timeout:     timeout,
		backoffUnit: defaultBackoffUnit,
		sleep:       SleepContext,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send delivers payload to endpoint, making at most maxAttempts attempts.
// Only timeouts and network failures are retried; HTTP errors are returned
// as soon as they are seen. The last error is returned once attempts run out.
func (t *RetryingTransport) Send(ctx context.Context, endpoint string, payload ChatRequest, maxAttempts int) (*ChatReply, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pending := PendingRequest{Attempt: attempt, StartedAt: t.now()}

		reply, err := t.attempt(ctx, endpoint, payload, pending)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !chaterr.Retryable(err) {
			t.logger.Debug("terminal error, not retrying",
				zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		backoff := t.backoffUnit * time.Duration(attempt)
		t.logger.Warn("request failed, will retry",
			zap.Int("attempt", attempt),
			zap.Int("next_attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if err := t.sleep(ctx, backoff); err != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func (t *RetryingTransport) attempt(ctx context.Context, endpoint string, payload ChatRequest, pending PendingRequest) (*ChatReply, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.exchanger.Exchange(attemptCtx, endpoint, payload)
	elapsed := t.now().Sub(pending.StartedAt)
	if err == nil {
		t.logger.Debug("request succeeded",
			zap.Int("attempt", pending.Attempt), zap.Duration("elapsed", elapsed))
		return reply, nil
	}

	// The attempt deadline fired while the caller's context is still live.
	if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return nil, chaterr.Timeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() && ctx.Err() == nil {
		return nil, chaterr.Timeout(err)
	}

	var ce *chaterr.Error
	if errors.As(err, &ce) {
		return nil, err
	}
	if ctx.Err() != nil {
		// Service shutdown, not a transport failure.
		return nil, chaterr.Unknown("request cancelled", err)
	}
	return nil, chaterr.Network(err)
}
