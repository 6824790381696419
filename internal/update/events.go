package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/scheduler"
)

const eventBuffer = 16

// eventBridge moves lifecycle notifications from whichever goroutine
// published them onto the bubbletea loop. Notifications only trigger a
// reload, so dropping one while the buffer is full loses nothing.
type eventBridge struct {
	ch  chan alarm.Event
	sub *alarm.Subscription
}

func newEventBridge(svc *alarm.Service) *eventBridge {
	b := &eventBridge{ch: make(chan alarm.Event, eventBuffer)}
	b.sub = svc.Subscribe(func(ev alarm.Event) {
		select {
		case b.ch <- ev:
		default:
		}
	})
	return b
}

func (b *eventBridge) close() {
	if b == nil {
		return
	}
	b.sub.Unsubscribe()
}

func waitForAlarmEventCmd(ch <-chan alarm.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmsChangedMsg{Event: ev}
	}
}

func waitForFireCmd(ch <-chan scheduler.FireEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmFiredMsg{Event: ev}
	}
}
