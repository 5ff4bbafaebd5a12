package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/chaterr"
	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/logging"
	"github.com/Rorical/FolioChat/internal/models"
	"github.com/Rorical/FolioChat/internal/transport"
)

// Renderer is whatever displays the transcript and owns the input controls.
type Renderer interface {
	Render(messages []models.Message)
	Notify(notice string)
	SetInputEnabled(enabled bool)
}

// Transport sends one chat message with bounded retries.
type Transport interface {
	Send(ctx context.Context, endpoint string, payload transport.ChatRequest, maxAttempts int) (*transport.ChatReply, error)
}

// Pipeline validates user input, dispatches it and renders the outcome.
// Callers must not overlap Submit calls; completion order of overlapping
// calls is not defined.
type Pipeline struct {
	cfg        *config.Config
	transcript *Transcript
	transport  Transport
	renderer   Renderer
	sleep      transport.SleepFunc
	logger     *zap.Logger
}

type PipelineOption func(*Pipeline)

// WithTypingSleep replaces the per-character wait of the typing animation.
func WithTypingSleep(fn transport.SleepFunc) PipelineOption {
	return func(p *Pipeline) { p.sleep = fn }
}

func NewPipeline(cfg *config.Config, transcript *Transcript, tr Transport, renderer Renderer, logger *zap.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		cfg:        cfg,
		transcript: transcript,
		transport:  tr,
		renderer:   renderer,
		sleep:      transport.SleepContext,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate trims rawText and checks it against the configured limits.
func (p *Pipeline) Validate(rawText string) (string, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return "", chaterr.Validation("Please enter a message")
	}
	if utf8.RuneCountInString(text) > p.cfg.MaxMessageLength {
		return "", chaterr.Validation(fmt.Sprintf("Message too long (max %d characters)", p.cfg.MaxMessageLength))
	}
	return text, nil
}

// Submit runs one chat exchange. Input controls are disabled for its duration
// and re-enabled exactly once on every exit path. The returned error is the
// raw failure; only its translation is ever rendered.
func (p *Pipeline) Submit(ctx context.Context, rawText string) error {
	p.renderer.SetInputEnabled(false)
	defer p.renderer.SetInputEnabled(true)

	text, err := p.Validate(rawText)
	if err != nil {
		p.renderer.Notify(chaterr.Translate(err))
		return err
	}

	p.logger.Info("received message", zap.String("message", logging.Truncate(text, 100)))

	p.transcript.AppendUser(text)
	p.render()

	placeholderID := p.transcript.AppendPlaceholder()
	p.render()

	reply, err := p.transport.Send(ctx, transport.ChatPath, transport.ChatRequest{Message: text}, p.cfg.RetryAttempts)
	if err != nil {
		p.logger.Error("chat request failed",
			zap.Stringer("kind", chaterr.KindOf(err)),
			zap.Error(err))
		p.transcript.Replace(placeholderID, models.Message{
			Role:    models.Assistant,
			Text:    chaterr.Translate(err),
			IsError: true,
		})
		p.render()
		return err
	}

	if p.cfg.TypingIndicator {
		p.typeOut(ctx, placeholderID, reply.Reply)
	}
	p.transcript.Replace(placeholderID, models.Message{Role: models.Assistant, Text: reply.Reply})
	p.render()

	p.logger.Info("reply rendered", zap.Int("length", utf8.RuneCountInString(reply.Reply)))
	return nil
}

// typeOut reveals text one character at a time in place of the placeholder.
// Cancellation stops the animation; the caller renders the full text.
func (p *Pipeline) typeOut(ctx context.Context, id, text string) {
	if p.cfg.TypingSpeed() <= 0 {
		return
	}
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		p.transcript.Replace(id, models.Message{Role: models.Assistant, Text: b.String(), Typing: true})
		p.render()
		if err := p.sleep(ctx, p.cfg.TypingSpeed()); err != nil {
			return
		}
	}
}

func (p *Pipeline) render() {
	p.renderer.Render(p.transcript.Messages())
}
