package update

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/views"
)

func (m Model) activeUser() string {
	return m.session.ActiveUser()
}

// refresh reloads the active user's alarms ordered by baseline time and
// keeps the selection on the same alarm when it still exists.
func (m *Model) refresh() {
	alarms := m.svc.Alarms(m.activeUser())
	slices.SortStableFunc(alarms, func(a, b model.Alarm) int {
		return sortKey(a) - sortKey(b)
	})
	m.Alarms = alarms

	if idx := m.indexOf(m.SelectedID); idx >= 0 {
		m.Cursor = idx
	}
	if m.Cursor >= len(m.Alarms) {
		m.Cursor = len(m.Alarms) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = ""
	if len(m.Alarms) > 0 {
		m.SelectedID = m.Alarms[m.Cursor].ID
	}
	if m.PendingDelete != "" && m.indexOf(m.PendingDelete) < 0 {
		m.PendingDelete = ""
	}
}

func sortKey(a model.Alarm) int {
	base := a.OriginalTime
	if base == "" {
		base = a.ScheduledTime
	}
	t, err := model.ParseTime(base)
	if err != nil {
		return 24 * 60
	}
	return t.Hour*60 + t.Minute
}

func (m Model) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.Alarms, func(a model.Alarm) bool { return a.ID == id })
}

func (m Model) selected() (model.Alarm, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Alarms) {
		return model.Alarm{}, false
	}
	return m.Alarms[m.Cursor], true
}

func (m Model) handleAlarmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(m.Alarms)-1 {
			m.Cursor++
			m.SelectedID = m.Alarms[m.Cursor].ID
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
			m.SelectedID = m.Alarms[m.Cursor].ID
		}
	case m.Keys.Add:
		m = m.openEditor(nil)
	case m.Keys.Edit, "enter":
		if a, ok := m.selected(); ok {
			m = m.openEditor(&a)
		}
	case m.Keys.Taken:
		if a, ok := m.selected(); ok {
			m = m.applyStatus(a, model.StatusCompleted)
		}
	case m.Keys.Snooze:
		if a, ok := m.selected(); ok {
			m = m.applyStatus(a, model.StatusSnoozed)
		}
	case m.Keys.Undo:
		if a, ok := m.selected(); ok {
			m = m.applyStatus(a, model.StatusActive)
		}
	case m.Keys.Delete:
		if a, ok := m.selected(); ok {
			m.PendingDelete = a.ID
			m.Status = StatusBar{Text: fmt.Sprintf("delete %s? [y/n]", a.Name)}
		}
	}
	return m
}

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) Model {
	id := m.PendingDelete
	m.PendingDelete = ""
	switch msg.String() {
	case "y", "Y":
		a, err := m.svc.Get(id)
		if err != nil {
			m.Status = StatusBar{Text: "alarm no longer exists"}
			m.refresh()
			return m
		}
		m = m.reportResult(m.svc.Delete(m.ctx, id), fmt.Sprintf("deleted %s", a.Name))
	default:
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) applyStatus(a model.Alarm, status model.Status) Model {
	err := m.svc.UpdateStatus(m.ctx, a.ID, status)
	var text string
	switch status {
	case model.StatusCompleted:
		text = fmt.Sprintf("%s taken", a.Name)
	case model.StatusSnoozed:
		text = fmt.Sprintf("%s snoozed for %d minutes", a.Name, m.svc.SnoozeMinutes())
	default:
		text = fmt.Sprintf("%s active again", a.Name)
	}
	return m.reportResult(err, text)
}

// reportResult refreshes the list and reports a lifecycle call. A
// persistence failure still changed the in-memory state, so the list is
// reloaded either way.
func (m Model) reportResult(err error, success string) Model {
	m.refresh()
	if err != nil {
		m.LastError = err
		var perr *alarm.PersistenceError
		if errors.As(err, &perr) {
			m.Status = StatusBar{Text: fmt.Sprintf("%s, but saving failed: %v", success, perr.Err), IsError: true}
		} else {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
		m.notify("Error", m.Status.Text, "error")
		return m
	}
	m.Status = StatusBar{Text: success}
	return m
}

// resolveTarget finds an alarm by 1-based list position, id, exact name or
// name substring, in that order.
func (m Model) resolveTarget(target string) (model.Alarm, error) {
	target = strings.TrimSpace(target)
	if n, err := strconv.Atoi(target); err == nil {
		if n >= 1 && n <= len(m.Alarms) {
			return m.Alarms[n-1], nil
		}
		return model.Alarm{}, fmt.Errorf("no alarm number %d", n)
	}
	for _, a := range m.Alarms {
		if a.ID == target {
			return a, nil
		}
	}
	for _, a := range m.Alarms {
		if strings.EqualFold(a.Name, target) {
			return a, nil
		}
	}
	var matches []model.Alarm
	for _, a := range m.Alarms {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(target)) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Alarm{}, fmt.Errorf("no alarm matches %q", target)
	default:
		return model.Alarm{}, fmt.Errorf("%q matches %d alarms, use the number", target, len(matches))
	}
}

func (m Model) rows() []views.AlarmRowData {
	now := m.now()
	out := make([]views.AlarmRowData, 0, len(m.Alarms))
	for _, a := range m.Alarms {
		out = append(out, views.AlarmRowData{
			ID:       a.ID,
			Name:     a.Name,
			Time:     a.ScheduledTime,
			Original: a.OriginalTime,
			Days:     a.RepeatDays,
			Status:   string(a.Status),
			DueToday: a.DueOn(now),
		})
	}
	return out
}

func (m Model) renderAlarmListView() string {
	pending := ""
	if m.PendingDelete != "" {
		pending = "confirm delete: [y] yes [n] no"
	}
	return views.RenderAlarmList(views.AlarmListData{
		User:       m.activeUser(),
		Items:      m.rows(),
		SelectedID: m.SelectedID,
		Pending:    pending,
	})
}

func (m Model) renderDetailView() string {
	a, ok := m.selected()
	if !ok {
		return views.RenderAlarmDetail(views.AlarmDetailData{})
	}
	row := m.rows()[m.Cursor]
	view := ""
	if a.Status.Triggerable() {
		if msg, found := m.svc.CheckConflict(a.Name, a.ScheduledTime, alarm.ForOwner(a.OwnerID), alarm.Excluding(a.ID)); found {
			m.detailView.SetContent(views.RenderMarkdown(views.ConflictMarkdown(msg)))
			view = m.detailView.View()
		}
	}
	return views.RenderAlarmDetail(views.AlarmDetailData{
		Item:         &row,
		LastTaken:    a.LastTakenDate,
		Upcoming:     m.upcoming(a),
		Related:      m.svc.Related(a.Name),
		MarkdownView: view,
	})
}

func (m Model) upcoming(a model.Alarm) []string {
	next, err := model.Preview(a, m.now(), 3)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(next))
	for _, t := range next {
		out = append(out, fmt.Sprintf("%s(%s) %s", t.Format("01-02"), model.WeekdayTag(t.Weekday()), model.FormatClock(t)))
	}
	return out
}
