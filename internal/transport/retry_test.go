package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/FolioChat/internal/chaterr"
)

// scriptedExchanger returns the scripted results in order, repeating the last.
type scriptedExchanger struct {
	mu      sync.Mutex
	results []func(ctx context.Context) (*ChatReply, error)
	calls   int
}

func (s *scriptedExchanger) Exchange(ctx context.Context, endpoint string, payload ChatRequest) (*ChatReply, error) {
	s.mu.Lock()
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	fn := s.results[i]
	s.mu.Unlock()
	return fn(ctx)
}

func (s *scriptedExchanger) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func reply(text string) func(context.Context) (*ChatReply, error) {
	return func(context.Context) (*ChatReply, error) { return &ChatReply{Reply: text}, nil }
}

func fail(err error) func(context.Context) (*ChatReply, error) {
	return func(context.Context) (*ChatReply, error) { return nil, err }
}

func hang(ctx context.Context) (*ChatReply, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestTransport(ex Exchanger, timeout time.Duration, rec *sleepRecorder) *RetryingTransport {
	return NewRetryingTransport(ex, timeout, nil, WithSleep(rec.Sleep))
}

func TestSend_SuccessFirstAttempt(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){reply("hi")}}
	rec := &sleepRecorder{}

	got, err := newTestTransport(ex, time.Second, rec).Send(context.Background(), ChatPath, ChatRequest{Message: "hello"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Reply)
	assert.Equal(t, 1, ex.Calls())
	assert.Empty(t, rec.waits)
}

func TestSend_TimeoutRetriedWithLinearBackoff(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){hang}}
	rec := &sleepRecorder{}

	_, err := newTestTransport(ex, 10*time.Millisecond, rec).Send(context.Background(), ChatPath, ChatRequest{Message: "hello"}, 3)
	require.Error(t, err)
	assert.Equal(t, chaterr.KindTimeout, chaterr.KindOf(err))
	assert.Equal(t, 3, ex.Calls())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond}, rec.waits)
}

func TestSend_NetworkErrorThenSuccess(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){
		fail(chaterr.Network(errors.New("connection reset"))),
		reply("recovered"),
	}}
	rec := &sleepRecorder{}

	got, err := newTestTransport(ex, time.Second, rec).Send(context.Background(), ChatPath, ChatRequest{Message: "hello"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got.Reply)
	assert.Equal(t, 2, ex.Calls())
	assert.Equal(t, []time.Duration{time.Second}, rec.waits)
}

func TestSend_UnclassifiedErrorTreatedAsNetwork(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){
		fail(errors.New("Failed to fetch")),
	}}
	rec := &sleepRecorder{}

	_, err := newTestTransport(ex, time.Second, rec).Send(context.Background(), ChatPath, ChatRequest{}, 2)
	assert.Equal(t, chaterr.KindNetwork, chaterr.KindOf(err))
	assert.Equal(t, 2, ex.Calls())
}

func TestSend_ServerErrorsAreTerminal(t *testing.T) {
	for _, status := range []int{400, 429, 500, 503} {
		ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){
			fail(chaterr.Server(status, "")),
			reply("never"),
		}}
		rec := &sleepRecorder{}

		_, err := newTestTransport(ex, time.Second, rec).Send(context.Background(), ChatPath, ChatRequest{}, 5)
		require.Error(t, err)
		assert.Equal(t, 1, ex.Calls(), "status %d must not be retried", status)
		assert.Empty(t, rec.waits)
	}
}

func TestSend_SingleAttemptBound(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){
		fail(chaterr.Network(errors.New("down"))),
	}}
	rec := &sleepRecorder{}

	_, err := newTestTransport(ex, time.Second, rec).Send(context.Background(), ChatPath, ChatRequest{}, 0)
	require.Error(t, err)
	assert.Equal(t, 1, ex.Calls())
}

func TestSend_ParentCancelDuringBackoffStops(t *testing.T) {
	ex := &scriptedExchanger{results: []func(context.Context) (*ChatReply, error){
		fail(chaterr.Network(errors.New("down"))),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewRetryingTransport(ex, time.Second, nil, WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return context.Canceled
	}))

	_, err := tr.Send(ctx, ChatPath, ChatRequest{}, 3)
	assert.Equal(t, chaterr.KindNetwork, chaterr.KindOf(err))
	assert.Equal(t, 1, ex.Calls())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
