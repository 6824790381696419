package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/scheduler"
	"github.com/sandeepkv93/nutrid/internal/views"
)

func (m *Model) onAlarmFired(ev scheduler.FireEvent) {
	m.FireQueue = append(m.FireQueue, ev)
	m.notify("복용 알림", fmt.Sprintf("%s %s 드실 시간입니다.", ev.Time, ev.Name), "info")
	m.logger.Info("alarm shown", "alarm_id", ev.AlarmID, "queued", len(m.FireQueue))
}

// handleFireKey answers the popup at the front of the queue. Other keys are
// swallowed until the queue is empty.
func (m Model) handleFireKey(msg tea.KeyMsg) Model {
	ev := m.FireQueue[0]
	var status model.Status
	switch msg.String() {
	case m.Keys.Taken, "enter":
		status = model.StatusCompleted
	case m.Keys.Snooze:
		status = model.StatusSnoozed
	case "esc":
	default:
		return m
	}
	m.FireQueue = append([]scheduler.FireEvent(nil), m.FireQueue[1:]...)
	if status == "" {
		m.Status = StatusBar{Text: fmt.Sprintf("dismissed %s", ev.Name)}
		return m
	}
	a, err := m.svc.Get(ev.AlarmID)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("%s was deleted", ev.Name)}
		return m
	}
	return m.applyStatus(a, status)
}

func (m Model) renderFirePopup() string {
	if len(m.FireQueue) == 0 {
		return ""
	}
	ev := m.FireQueue[0]
	return views.RenderFirePopup(views.FirePopupData{
		Name:          ev.Name,
		Time:          ev.Time,
		Queued:        len(m.FireQueue) - 1,
		Related:       m.svc.Related(ev.Name),
		SnoozeMinutes: m.svc.SnoozeMinutes(),
	})
}
