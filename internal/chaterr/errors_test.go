package chaterr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", Timeout(context.DeadlineExceeded), TimeoutText},
		{"network", Network(errors.New("dial tcp: connection refused")), NetworkText},
		{"server 500", Server(500, ""), ServerText},
		{"server 503 with detail", Server(503, "upstream down"), ServerText},
		{"rate limited", Server(429, ""), RateLimitedText},
		{"client error", Server(400, "Message cannot be empty"), GenericText},
		{"unknown", Unknown("malformed reply", nil), GenericText},
		{"plain error", errors.New("boom"), GenericText},
		{"wrapped", fmt.Errorf("send: %w", Timeout(nil)), TimeoutText},
		{"validation", Validation("Please enter a message"), "Please enter a message"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Translate(tc.err))
		})
	}
}

func TestTranslateNeverLeaksRawText(t *testing.T) {
	err := Network(errors.New("dial tcp 10.0.0.1:8000: secret internals"))
	assert.NotContains(t, Translate(err), "10.0.0.1")
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Timeout(nil)))
	assert.True(t, Retryable(Network(errors.New("reset"))))
	assert.False(t, Retryable(Server(500, "")))
	assert.False(t, Retryable(Server(429, "")))
	assert.False(t, Retryable(Validation("x")))
	assert.False(t, Retryable(errors.New("boom")))
}

func TestServerFallbackDetail(t *testing.T) {
	err := Server(502, "")
	assert.Equal(t, "Server error: 502", err.Error())
	assert.Equal(t, KindServer, err.Kind)

	assert.Equal(t, KindRateLimited, Server(429, "slow down").Kind)
}

func TestUnwrap(t *testing.T) {
	err := Timeout(context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, KindOf(fmt.Errorf("outer: %w", err)))
}
