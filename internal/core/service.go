package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/eventbus"
	"github.com/Rorical/FolioChat/internal/models"
)

const welcomeMessage = "Hi! I'm the portfolio's AI assistant. Ask me about projects, skills, or experience!"

// ChatService drains UI events on a single goroutine, so submissions are
// handled strictly in the order the UI sent them.
type ChatService struct {
	config     *config.Config
	transcript *Transcript
	pipeline   *Pipeline
	eventBus   *eventbus.EventBus
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once
}

func NewChatService(cfg *config.Config, tr Transport, eb *eventbus.EventBus, logger *zap.Logger, opts ...PipelineOption) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	transcript := NewTranscript()

	service := &ChatService{
		config:     cfg,
		transcript: transcript,
		eventBus:   eb,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	service.pipeline = NewPipeline(cfg, transcript, tr, &busRenderer{ctx: ctx, eventBus: eb, logger: logger}, logger, opts...)

	transcript.AppendAssistant(welcomeMessage)

	return service
}

// Start pushes the initial state and runs the event loop in a goroutine.
func (cs *ChatService) Start() {
	cs.pushTranscript()
	cs.pushControls(true)
	go cs.eventLoop()
}

// Stop cancels any in-flight request and waits for the event loop to exit.
func (cs *ChatService) Stop() {
	cs.stopOnce.Do(func() {
		cs.cancel()
		<-cs.done
	})
}

func (cs *ChatService) Transcript() *Transcript {
	return cs.transcript
}

func (cs *ChatService) eventLoop() {
	defer close(cs.done)
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitEvent:
		// Errors are already rendered and logged by the pipeline.
		_ = cs.pipeline.Submit(cs.ctx, e.Text)
	case eventbus.ClearEvent:
		cs.transcript.Clear()
		cs.pushTranscript()
	}
}

func (cs *ChatService) pushTranscript() {
	cs.send(eventbus.TranscriptEvent{Messages: cs.transcript.Messages()})
}

func (cs *ChatService) pushControls(enabled bool) {
	cs.send(eventbus.ControlsEvent{Enabled: enabled})
}

func (cs *ChatService) send(event eventbus.CoreEvent) {
	if err := cs.eventBus.DeliverToUI(cs.ctx, event); err != nil {
		cs.logger.Warn("failed to send event to UI", zap.Error(err))
	}
}

// busRenderer forwards pipeline output to the UI over the event bus. Typing
// frames are coalesced; everything else is delivered in order and blocks
// until the UI takes it or the service stops.
type busRenderer struct {
	ctx      context.Context
	eventBus *eventbus.EventBus
	logger   *zap.Logger
}

func (r *busRenderer) Render(messages []models.Message) {
	if isTypingFrame(messages) {
		r.eventBus.PublishFrame(eventbus.TranscriptEvent{Messages: messages})
		return
	}
	r.eventBus.DiscardFrame()
	r.send(eventbus.TranscriptEvent{Messages: messages})
}

func (r *busRenderer) Notify(notice string) {
	r.send(eventbus.NoticeEvent{Text: notice})
}

func (r *busRenderer) SetInputEnabled(enabled bool) {
	r.send(eventbus.ControlsEvent{Enabled: enabled})
}

func (r *busRenderer) send(event eventbus.CoreEvent) {
	if err := r.eventBus.DeliverToUI(r.ctx, event); err != nil {
		r.logger.Warn("failed to send event to UI", zap.Error(err))
	}
}

func isTypingFrame(messages []models.Message) bool {
	return len(messages) > 0 && messages[len(messages)-1].Typing
}
