package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/config"
	"github.com/Rorical/FolioChat/internal/core"
	"github.com/Rorical/FolioChat/internal/dispatcher"
	"github.com/Rorical/FolioChat/internal/eventbus"
	"github.com/Rorical/FolioChat/internal/models"
	"github.com/Rorical/FolioChat/internal/transport"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
	logger     *zap.Logger
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	viewport   viewport.Model
	autoScroll bool
	timestamps bool
}

func NewApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tr, err := transport.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	chatService := core.NewChatService(cfg, tr, eb, logger)

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      newAppModel(cfg, disp),
		logger:     logger,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()
	app.logger.Info("chat started",
		zap.String("backend", app.config.Backend),
		zap.String("backend_url", app.config.BaseURL()))

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func newAppModel(cfg *config.Config, disp *dispatcher.EventDispatcher) *AppModel {
	// Messages come from core as the single source of truth
	return &AppModel{
		appModel: models.AppModel{
			Messages: make([]models.Message, 0),
			Status:   "Connecting",
		},
		dispatcher: disp,
		viewport:   viewport.New(80, 20),
		autoScroll: cfg.AutoScroll,
		timestamps: cfg.Timestamps,
	}
}
