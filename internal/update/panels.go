package update

import (
	"strings"

	"github.com/sandeepkv93/nutrid/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	out := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
	if m.Palette.Output != "" {
		out = strings.TrimSpace(out + "\n" + views.RenderMarkdown(views.ConflictMarkdown(m.Palette.Output)))
	}
	return out
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Warn("desktop notification failed", "err", err)
		}
	}
}
