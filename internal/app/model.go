package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/FolioChat/internal/dispatcher"
	"github.com/Rorical/FolioChat/internal/update"
	"github.com/Rorical/FolioChat/ui/components"
)

// Rows taken by the input box, status line and notice.
const chromeHeight = 6

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case dispatcher.CoreEventMsg:
		// Keep listening after every core event
		cmds = append(cmds, update.HandleCoreEvent(&m.appModel, msg), m.dispatcher.ListenForCoreEvents())
	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.appModel, msg)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		cmds = append(cmds, update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus()))
	default:
		cmds = append(cmds, update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus()))
	}

	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

func (m *AppModel) refreshViewport() {
	m.viewport.SetContent(components.RenderMessages(m.appModel.Messages, m.appModel.LoadingDots, m.timestamps))
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if notice := components.RenderNotice(m.appModel.Notice); notice != "" {
		b.WriteString(notice)
	}
	b.WriteString("\n")
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.InputEnabled, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, !m.appModel.InputEnabled, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
