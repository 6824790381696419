package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/views"
)

const (
	fieldName = iota
	fieldTime
	fieldDays
	fieldCount
)

// EditorState backs the add/edit form. Warning holds a pending conflict
// message; a second enter while it is set saves anyway.
type EditorState struct {
	EditID  string
	Focus   int
	Err     string
	Warning string

	inputs []textinput.Model
}

func newEditorState() EditorState {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 64
		in.Width = 32
		inputs[i] = in
	}
	inputs[fieldName].Prompt = "name: "
	inputs[fieldName].Placeholder = "비타민D"
	inputs[fieldTime].Prompt = "time: "
	inputs[fieldTime].Placeholder = model.MarkerAM + " 09 : 00"
	inputs[fieldDays].Prompt = "days: "
	inputs[fieldDays].Placeholder = "월,수,금 (empty = every day)"
	return EditorState{inputs: inputs}
}

func (e EditorState) value(field int) string {
	return strings.TrimSpace(e.inputs[field].Value())
}

func (e *EditorState) focus(field int) {
	e.Focus = field
	for i := range e.inputs {
		if i == field {
			e.inputs[i].Focus()
		} else {
			e.inputs[i].Blur()
		}
	}
}

// openEditor switches to the form, prefilled from a when editing.
func (m Model) openEditor(a *model.Alarm) Model {
	ed := newEditorState()
	if a != nil {
		ed.EditID = a.ID
		ed.inputs[fieldName].SetValue(a.Name)
		base := a.OriginalTime
		if base == "" {
			base = a.ScheduledTime
		}
		ed.inputs[fieldTime].SetValue(base)
		ed.inputs[fieldDays].SetValue(strings.Join(a.RepeatDays, ","))
	}
	ed.focus(fieldName)
	m.Editor = ed
	m.CurrentView = ViewEditor
	if a != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("editing %s", a.Name)}
	} else {
		m.Status = StatusBar{Text: "new alarm"}
	}
	return m
}

func (m Model) closeEditor(status string) Model {
	m.Editor = newEditorState()
	m.CurrentView = ViewAlarms
	m.Status = StatusBar{Text: status}
	return m
}

func (m Model) handleEditorKey(msg tea.KeyMsg) Model {
	ed := m.Editor
	switch msg.String() {
	case "esc":
		if ed.Warning != "" {
			ed.Warning = ""
			m.Editor = ed
			m.Status = StatusBar{Text: "save cancelled"}
			return m
		}
		return m.closeEditor("edit cancelled")
	case "tab", "down":
		ed.focus((ed.Focus + 1) % fieldCount)
	case "shift+tab", "up":
		ed.focus((ed.Focus + fieldCount - 1) % fieldCount)
	case "enter":
		m.Editor = ed
		return m.submitEditor()
	default:
		in := ed.inputs[ed.Focus]
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			in.SetValue(in.Value() + string(msg.Runes))
			in.CursorEnd()
		} else {
			in, _ = in.Update(msg)
		}
		ed.inputs[ed.Focus] = in
		ed.Warning = ""
		ed.Err = ""
	}
	m.Editor = ed
	return m
}

// submitEditor validates the form and saves it. A conflict with another
// active alarm is shown first and saved only on a repeated enter.
func (m Model) submitEditor() Model {
	ed := m.Editor
	name := ed.value(fieldName)
	if name == "" {
		ed.Err = "name is required"
		ed.focus(fieldName)
		m.Editor = ed
		return m
	}
	t, err := model.ParseTime(ed.value(fieldTime))
	if err != nil {
		ed.Err = fmt.Sprintf("time must look like %q", model.MarkerAM+" 09 : 00")
		ed.focus(fieldTime)
		m.Editor = ed
		return m
	}
	days, err := model.ParseWeekdays(ed.value(fieldDays))
	if err != nil {
		ed.Err = err.Error()
		ed.focus(fieldDays)
		m.Editor = ed
		return m
	}
	ed.Err = ""

	if ed.Warning == "" {
		opts := []alarm.ConflictOption{alarm.ForOwner(m.activeUser())}
		if ed.EditID != "" {
			opts = append(opts, alarm.Excluding(ed.EditID))
		}
		if warning, found := m.svc.CheckConflict(name, t.String(), opts...); found {
			ed.Warning = warning
			m.Editor = ed
			m.Status = StatusBar{Text: "conflict found, press enter to save anyway"}
			return m
		}
	}

	saved, err := m.svc.Save(m.ctx, m.activeUser(), alarm.SaveRequest{
		Name:   name,
		Time:   t.String(),
		Days:   days,
		EditID: ed.EditID,
	})
	var perr *alarm.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		ed.Err = err.Error()
		m.Editor = ed
		return m
	}
	if saved.ID != "" {
		m.SelectedID = saved.ID
	}
	verb := "added"
	if ed.EditID != "" {
		verb = "updated"
	}
	if saved.ID == "" && ed.EditID != "" {
		m = m.closeEditor("alarm no longer exists")
		m.refresh()
		return m
	}
	m = m.closeEditor("")
	return m.reportResult(err, fmt.Sprintf("%s %s at %s", verb, saved.Name, saved.ScheduledTime))
}

func (m Model) renderEditorView() string {
	ed := m.Editor
	warning := ""
	if ed.Warning != "" {
		warning = views.RenderMarkdown(views.ConflictMarkdown(ed.Warning))
	}
	return views.RenderEditor(views.EditorData{
		Editing:   ed.EditID != "",
		NameView:  ed.inputs[fieldName].View(),
		TimeView:  ed.inputs[fieldTime].View(),
		DaysView:  ed.inputs[fieldDays].View(),
		Focus:     ed.Focus,
		ErrorText: ed.Err,
		Warning:   warning,
	})
}
