package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/FolioChat/internal/dispatcher"
	"github.com/Rorical/FolioChat/internal/eventbus"
	"github.com/Rorical/FolioChat/internal/models"
)

const noticeDuration = 3 * time.Second

// NoticeExpiredMsg dismisses the notice with the matching sequence number
type NoticeExpiredMsg struct {
	Seq int
}

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyCtrlL:
		if err := eb.SendToCore(eventbus.ClearEvent{}); err != nil {
			appModel.Status = "Error clearing chat: " + err.Error()
		}
		return nil
	}

	// Input is locked while a request is outstanding
	if !appModel.InputEnabled {
		return nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		// Validation happens in core so empty input still gets a notice
		if err := eb.SendToCore(eventbus.SubmitEvent{Text: appModel.Input}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		appModel.Input = ""
		appModel.InputEnabled = false
	case tea.KeyBackspace:
		if r := []rune(appModel.Input); len(r) > 0 {
			appModel.Input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		appModel.Input += " "
	case tea.KeyRunes:
		appModel.Input += string(keyMsg.Runes)
	}
	return nil
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.TranscriptEvent:
		appModel.Messages = event.Messages
	case eventbus.ControlsEvent:
		appModel.InputEnabled = event.Enabled
		if event.Enabled {
			appModel.Status = "Ready"
		} else {
			appModel.Status = "Waiting for reply"
		}
	case eventbus.NoticeEvent:
		appModel.NoticeSeq++
		appModel.Notice = event.Text
		seq := appModel.NoticeSeq
		return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
			return NoticeExpiredMsg{Seq: seq}
		})
	}

	return nil
}

func HandleNoticeExpired(appModel *models.AppModel, msg NoticeExpiredMsg) {
	if msg.Seq == appModel.NoticeSeq {
		appModel.Notice = ""
	}
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if hasPlaceholder(appModel.Messages) {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}

func hasPlaceholder(messages []models.Message) bool {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Loading {
			return true
		}
	}
	return false
}
