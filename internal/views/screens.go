package views

import (
	"fmt"
	"strings"
)

type AlarmRowData struct {
	ID       string
	Name     string
	Time     string
	Original string
	Days     []string
	Status   string
	DueToday bool
}

type AlarmListData struct {
	User       string
	Items      []AlarmRowData
	SelectedID string
	Pending    string
}

type AlarmDetailData struct {
	Item         *AlarmRowData
	LastTaken    string
	Upcoming     []string
	Related      []string
	MarkdownView string
}

type EditorData struct {
	Editing   bool
	NameView  string
	TimeView  string
	DaysView  string
	Focus     int
	ErrorText string
	Warning   string
}

type FirePopupData struct {
	Name          string
	Time          string
	Queued        int
	Related       []string
	SnoozeMinutes int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderAlarmList(data AlarmListData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("alarms (%s):\n", data.User))
	b.WriteString("actions: [a]add [e]edit [c]taken [s]snooze [x]undo [d]delete\n")
	if len(data.Items) == 0 {
		b.WriteString("\n(no alarms yet, press [a] to add one)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n")
	for i, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s %s", cursor, i+1, statusBadge(item), item.Time, item.Name))
		if len(item.Days) > 0 {
			b.WriteString(fmt.Sprintf(" [%s]", strings.Join(item.Days, "")))
		}
		if item.Status == "SNOOZED" && item.Original != "" && item.Original != item.Time {
			b.WriteString(fmt.Sprintf(" (was %s)", item.Original))
		}
		b.WriteString("\n")
	}
	if data.Pending != "" {
		b.WriteString("\n" + data.Pending)
	}
	return strings.TrimSpace(b.String())
}

func RenderAlarmDetail(data AlarmDetailData) string {
	if data.Item == nil {
		return "detail:\n(no selection)"
	}
	item := data.Item
	days := "every day"
	if len(item.Days) > 0 {
		days = strings.Join(item.Days, ", ")
	}
	taken := data.LastTaken
	if taken == "" {
		taken = "-"
	}
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", item.ID))
	b.WriteString(fmt.Sprintf("name: %s\n", item.Name))
	b.WriteString(fmt.Sprintf("time: %s\n", item.Time))
	if item.Original != "" && item.Original != item.Time {
		b.WriteString(fmt.Sprintf("original: %s\n", item.Original))
	}
	b.WriteString(fmt.Sprintf("days: %s\n", days))
	b.WriteString(fmt.Sprintf("status: %s\n", item.Status))
	b.WriteString(fmt.Sprintf("last taken: %s\n", taken))
	if len(data.Upcoming) > 0 {
		b.WriteString(fmt.Sprintf("next: %s\n", strings.Join(data.Upcoming, ", ")))
	}
	if len(data.Related) > 0 {
		b.WriteString(fmt.Sprintf("keep apart from: %s\n", strings.Join(data.Related, ", ")))
	}
	if data.MarkdownView != "" {
		b.WriteString("\n" + data.MarkdownView)
	}
	return strings.TrimSpace(b.String())
}

func RenderEditor(data EditorData) string {
	title := "new alarm"
	if data.Editing {
		title = "edit alarm"
	}
	fields := []string{data.NameView, data.TimeView, data.DaysView}
	var b strings.Builder
	b.WriteString(title + ":\n")
	b.WriteString("keys: [tab] next field [enter] save [esc] cancel\n")
	for i, f := range fields {
		marker := " "
		if i == data.Focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, f))
	}
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText + "\n")
	}
	if data.Warning != "" {
		b.WriteString("\n" + data.Warning + "\n")
		b.WriteString("press [enter] again to save anyway, [esc] to go back\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderFirePopup(data FirePopupData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏰ %s\n", data.Time))
	b.WriteString(fmt.Sprintf("%s 드실 시간입니다.\n", data.Name))
	if len(data.Related) > 0 {
		b.WriteString(fmt.Sprintf("함께 드시지 마세요: %s\n", strings.Join(data.Related, ", ")))
	}
	b.WriteString(fmt.Sprintf("[c] 복용 완료  [s] %d분 뒤 다시 알림  [esc] 닫기", data.SnoozeMinutes))
	if data.Queued > 0 {
		b.WriteString(fmt.Sprintf("\n(+%d more)", data.Queued))
	}
	return popupStyle.Render(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func statusBadge(item AlarmRowData) string {
	switch item.Status {
	case "COMPLETED":
		return "[DONE]"
	case "SNOOZED":
		return "[SNOOZ]"
	}
	if !item.DueToday {
		return "[OFF]"
	}
	return "[ON]"
}
