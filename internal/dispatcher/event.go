package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/FolioChat/internal/eventbus"
)

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// EventDispatcher handles routing events between core and UI
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}

// ListenForCoreEvents waits for the next core event or typing frame. The
// model re-issues it after handling each event. It yields nil once stopped
// or closed.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-ed.ctx.Done():
				return nil
			case event, ok := <-ed.eventBus.CoreToUI():
				if !ok {
					return nil
				}
				return CoreEventMsg{Event: event}
			case <-ed.eventBus.FrameReady():
				// The frame may have been discarded in favour of a final transcript
				if frame, ok := ed.eventBus.TakeFrame(); ok {
					return CoreEventMsg{Event: frame}
				}
			}
		}
	}
}
