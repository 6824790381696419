package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/commands"
	"github.com/sandeepkv93/nutrid/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.Palette.Output = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	var lifecycleErr error
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			user := m.activeUser()
			if warning, found := m.svc.CheckConflict(a.Name, a.Time, alarm.ForOwner(user)); found {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("%s (press [a] to add it from the editor anyway)", firstLine(warning)),
				}
			}
			saved, err := m.svc.Register(m.ctx, user, a.Name, a.Time, a.Days)
			if saved.ID == "" {
				return commands.Result{}, err
			}
			lifecycleErr = err
			m.SelectedID = saved.ID
			return commands.Result{Message: fmt.Sprintf("added %s at %s", saved.Name, saved.ScheduledTime)}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			return m.paletteStatus(t.Target, model.StatusCompleted, &lifecycleErr)
		},
		Snooze: func(t commands.TargetArgs) (commands.Result, error) {
			return m.paletteStatus(t.Target, model.StatusSnoozed, &lifecycleErr)
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			a, err := m.resolveTarget(t.Target)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			lifecycleErr = m.svc.Delete(m.ctx, a.ID)
			return commands.Result{Message: fmt.Sprintf("deleted %s", a.Name)}, nil
		},
		Check: func(c commands.CheckArgs) (commands.Result, error) {
			warning, found := m.svc.CheckConflict(c.Name, c.Time, alarm.ForOwner(m.activeUser()))
			if !found {
				return commands.Result{Message: fmt.Sprintf("no conflict for %s at %s", c.Name, c.Time)}, nil
			}
			return commands.Result{Message: warning, Markdown: true}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m
	}
	if res.Markdown {
		m.Palette.Output = res.Message
		m.Status = StatusBar{Text: "conflict found"}
		return m
	}
	return m.reportResult(lifecycleErr, res.Message)
}

func (m Model) paletteStatus(target string, status model.Status, lifecycleErr *error) (commands.Result, error) {
	a, err := m.resolveTarget(target)
	if err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	*lifecycleErr = m.svc.UpdateStatus(m.ctx, a.ID, status)
	if status == model.StatusSnoozed {
		return commands.Result{Message: fmt.Sprintf("%s snoozed for %d minutes", a.Name, m.svc.SnoozeMinutes())}, nil
	}
	return commands.Result{Message: fmt.Sprintf("%s taken", a.Name)}, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
