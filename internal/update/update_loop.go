package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForAlarmEventCmd(m.events.ch)}
	if m.engine != nil {
		cmds = append(cmds, waitForFireCmd(m.engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}

		if len(m.FireQueue) > 0 {
			return m.handleFireKey(typed), nil
		}
		if m.Palette.Active {
			if keyStr == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}
		if m.CurrentView == ViewEditor {
			return m.handleEditorKey(typed), nil
		}
		if m.PendingDelete != "" {
			return m.handleDeleteConfirm(typed), nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.Palette.Output = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleAlarmKey(typed), nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case AlarmsChangedMsg:
		m.refresh()
		return m, waitForAlarmEventCmd(m.events.ch)
	case AlarmFiredMsg:
		m.onAlarmFired(typed.Event)
		if m.engine != nil {
			return m, waitForFireCmd(m.engine.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := m.renderAlarmListView()
	rightPane := ""
	switch m.CurrentView {
	case ViewEditor:
		rightPane = m.renderEditorView()
	default:
		rightPane = m.renderDetailView()
	}
	rightPane = strings.TrimSpace(strings.Join([]string{rightPane, m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n\n"))

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("nutrid | user: %s | %s", m.activeUser(), m.now().Format("2006-01-02 15:04")),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		Popup:        m.renderFirePopup(),
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s add | %s edit | %s taken | %s snooze | %s delete | / cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Edit, m.Keys.Taken, m.Keys.Snooze, m.Keys.Delete, m.Keys.Help, m.Keys.Quit),
	})
}
