package update

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/scheduler"
	"github.com/sandeepkv93/nutrid/internal/session"
)

type View string

const (
	ViewAlarms View = "Alarms"
	ViewEditor View = "Editor"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add    string
	Edit   string
	Taken  string
	Snooze string
	Undo   string
	Delete string
	Help   string
	Quit   string
}

type Model struct {
	CurrentView    View
	SelectedID     string
	Alarms         []model.Alarm
	Cursor         int
	PendingDelete  string
	Editor         EditorState
	FireQueue      []scheduler.FireEvent
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx      context.Context
	svc      *alarm.Service
	engine   *scheduler.Engine
	session  session.Provider
	events   *eventBridge
	notifier DesktopNotifier
	logger   *slog.Logger
	now      func() time.Time

	commandInput textinput.Model
	helpModel    help.Model
	detailView   viewport.Model
}

// CommandPaletteState tracks the "/" prompt. Output keeps the last
// markdown answer, such as a conflict check, until the palette reopens.
type CommandPaletteState struct {
	Active bool
	Input  string
	Output string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type AlarmFiredMsg struct {
	Event scheduler.FireEvent
}

// AlarmsChangedMsg is delivered after a lifecycle notification. The list is
// reloaded from the service on receipt.
type AlarmsChangedMsg struct {
	Event alarm.Event
}

type Options struct {
	Context              context.Context
	Service              *alarm.Service
	Engine               *scheduler.Engine
	Session              session.Provider
	Notifier             DesktopNotifier
	DesktopNotifications bool
	Logger               *slog.Logger
	Now                  func() time.Time
}

// NewModel wires the UI to the alarm service. Call Close when the program
// exits to drop the service subscription.
func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Service == nil {
		opts.Service = alarm.NewService(nil, nil, alarm.Options{Logger: opts.Logger, Now: opts.Now})
	}
	if opts.Session == nil {
		opts.Session = session.Static("")
	}
	if opts.Notifier == nil {
		opts.Notifier = NoopDesktopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		CurrentView:    ViewAlarms,
		DesktopEnabled: opts.DesktopNotifications,
		Keys: GlobalKeyMap{
			Add:    "a",
			Edit:   "e",
			Taken:  "c",
			Snooze: "s",
			Undo:   "x",
			Delete: "d",
			Help:   "?",
			Quit:   "q",
		},
		ctx:      opts.Context,
		svc:      opts.Service,
		engine:   opts.Engine,
		session:  opts.Session,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	m.events = newEventBridge(opts.Service)
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m Model) Close() {
	m.events.close()
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.Editor = newEditorState()
	m.helpModel = help.New()
	m.detailView = viewport.New(54, 10)
}

func (m *Model) syncBubbleData() {
	m.commandInput.SetValue(m.Palette.Input)
	m.commandInput.CursorEnd()
	if m.Palette.Active {
		m.commandInput.Focus()
	}
}
