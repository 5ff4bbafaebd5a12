package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Rorical/FolioChat/internal/eventbus"
	"github.com/Rorical/FolioChat/internal/models"
	"github.com/Rorical/FolioChat/internal/transport"
)

type echoTransport struct{}

func (echoTransport) Send(ctx context.Context, endpoint string, payload transport.ChatRequest, maxAttempts int) (*transport.ChatReply, error) {
	return &transport.ChatReply{Reply: "echo: " + payload.Message}, nil
}

// blockingTransport holds every request until the context is cancelled.
type blockingTransport struct {
	started chan struct{}
}

func (b *blockingTransport) Send(ctx context.Context, endpoint string, payload transport.ChatRequest, maxAttempts int) (*transport.ChatReply, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func nextEvent(t *testing.T, eb *eventbus.EventBus) eventbus.CoreEvent {
	t.Helper()
	select {
	case ev := <-eb.CoreToUI():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for core event")
		return nil
	}
}

func TestChatService_StartPushesWelcome(t *testing.T) {
	defer goleak.VerifyNone(t)

	eb := eventbus.NewEventBus()
	cs := NewChatService(testConfig(), echoTransport{}, eb, nil)
	cs.Start()
	defer cs.Stop()

	ev, ok := nextEvent(t, eb).(eventbus.TranscriptEvent)
	require.True(t, ok)
	require.Len(t, ev.Messages, 1)
	assert.Equal(t, welcomeMessage, ev.Messages[0].Text)

	assert.Equal(t, eventbus.ControlsEvent{Enabled: true}, nextEvent(t, eb))
}

func TestChatService_SubmitFlow(t *testing.T) {
	defer goleak.VerifyNone(t)

	eb := eventbus.NewEventBus()
	cs := NewChatService(testConfig(), echoTransport{}, eb, nil)
	cs.Start()
	defer cs.Stop()
	nextEvent(t, eb)
	nextEvent(t, eb)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "  hi  "}))

	assert.Equal(t, eventbus.ControlsEvent{Enabled: false}, nextEvent(t, eb))
	user := nextEvent(t, eb).(eventbus.TranscriptEvent)
	assert.Equal(t, "hi", user.Messages[1].Text)
	loading := nextEvent(t, eb).(eventbus.TranscriptEvent)
	assert.True(t, loading.Messages[2].Loading)
	final := nextEvent(t, eb).(eventbus.TranscriptEvent)
	assert.Equal(t, "echo: hi", final.Messages[2].Text)
	assert.Equal(t, eventbus.ControlsEvent{Enabled: true}, nextEvent(t, eb))
}

func TestChatService_ValidationNotice(t *testing.T) {
	defer goleak.VerifyNone(t)

	eb := eventbus.NewEventBus()
	cs := NewChatService(testConfig(), echoTransport{}, eb, nil)
	cs.Start()
	defer cs.Stop()
	nextEvent(t, eb)
	nextEvent(t, eb)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "   "}))

	assert.Equal(t, eventbus.ControlsEvent{Enabled: false}, nextEvent(t, eb))
	assert.Equal(t, eventbus.NoticeEvent{Text: "Please enter a message"}, nextEvent(t, eb))
	assert.Equal(t, eventbus.ControlsEvent{Enabled: true}, nextEvent(t, eb))
}

func TestChatService_Clear(t *testing.T) {
	defer goleak.VerifyNone(t)

	eb := eventbus.NewEventBus()
	cs := NewChatService(testConfig(), echoTransport{}, eb, nil)
	cs.Start()
	defer cs.Stop()
	nextEvent(t, eb)
	nextEvent(t, eb)

	require.NoError(t, eb.SendToCore(eventbus.ClearEvent{}))

	ev := nextEvent(t, eb).(eventbus.TranscriptEvent)
	assert.Empty(t, ev.Messages)
	assert.Equal(t, 0, cs.Transcript().Len())
}

func TestChatService_StopCancelsInFlightRequest(t *testing.T) {
	defer goleak.VerifyNone(t)

	eb := eventbus.NewEventBus()
	tr := &blockingTransport{started: make(chan struct{})}
	cs := NewChatService(testConfig(), tr, eb, nil)
	cs.Start()

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "hello"}))
	<-tr.started

	cs.Stop()
	cs.Stop()
}

type fixedTransport struct {
	reply string
}

func (f fixedTransport) Send(ctx context.Context, endpoint string, payload transport.ChatRequest, maxAttempts int) (*transport.ChatReply, error) {
	return &transport.ChatReply{Reply: f.reply}, nil
}

func TestChatService_SlowConsumerStillGetsFinalStateDuringTyping(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.TypingIndicator = true
	cfg.TypingSpeedMS = 1
	reply := strings.Repeat("a long reply ", 20)

	eb := eventbus.NewEventBus()
	cs := NewChatService(cfg, fixedTransport{reply: reply}, eb, nil)
	cs.Start()
	defer cs.Stop()

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "tell me everything"}))

	// Nobody reads while the whole reply is typed out
	time.Sleep(300 * time.Millisecond)

	var (
		lastTranscript []models.Message
		sawFinal       bool
		reenabled      bool
		queued         int
	)
	deadline := time.After(5 * time.Second)
	for !reenabled {
		select {
		case ev := <-eb.CoreToUI():
			queued++
			switch e := ev.(type) {
			case eventbus.TranscriptEvent:
				lastTranscript = e.Messages
				sawFinal = len(e.Messages) == 3 && e.Messages[2].Text == reply
			case eventbus.ControlsEvent:
				reenabled = e.Enabled && sawFinal
			}
		case <-deadline:
			t.Fatalf("input never re-enabled after the reply: queued=%d", queued)
		}
	}

	assert.False(t, lastTranscript[2].Typing)
	assert.Less(t, queued, 20, "typing frames must not be queued one per character")
	assert.Equal(t, eventbus.CircuitClosed, eb.GetCircuitBreakerState())

	// No stale frame may follow the final transcript
	_, pending := eb.TakeFrame()
	assert.False(t, pending)
}
