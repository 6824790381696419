package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/session"
)

const DefaultInterval = time.Second

var ErrNilService = errors.New("scheduler: nil alarm service")

// FireEvent is emitted once when an alarm reaches its scheduled minute.
type FireEvent struct {
	AlarmID string
	OwnerID string
	Name    string
	Time    string
	At      time.Time
}

// AlarmService is the part of alarm.Service the engine drives.
type AlarmService interface {
	Snapshot() []model.Alarm
	ResetDaily(ctx context.Context, now time.Time) error
	Reactivate(ctx context.Context, id string, now time.Time) error
}

type Options struct {
	Interval   time.Duration
	BufferSize int
	Now        func() time.Time
	Logger     *slog.Logger
}

type Engine struct {
	svc      AlarmService
	session  session.Provider
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	out     chan FireEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	cancel  context.CancelFunc
	started bool
	stopped bool
	dropped uint64

	// owned by the loop goroutine
	lastDate string
	fired    map[string]string
}

func NewEngine(svc AlarmService, sess session.Provider, opts Options) (*Engine, error) {
	if svc == nil {
		return nil, ErrNilService
	}
	if sess == nil {
		sess = session.Static("")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		svc:      svc,
		session:  sess,
		interval: opts.Interval,
		now:      opts.Now,
		logger:   opts.Logger,
		out:      make(chan FireEvent, opts.BufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		fired:    make(map[string]string),
	}, nil
}

func (e *Engine) C() <-chan FireEvent {
	return e.out
}

// Start launches the tick loop. The current date becomes the observed
// date, so starting never triggers a daily reset by itself.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	e.lastDate = model.Today(e.now())

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go e.loop(ctx)
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.cancel()
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.tick(ctx, e.now())
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) tick(ctx context.Context, now time.Time) {
	today := model.Today(now)
	if e.lastDate == "" {
		e.lastDate = today
	}
	if today != e.lastDate {
		e.logger.Info("date changed", "from", e.lastDate, "to", today)
		e.lastDate = today
		clear(e.fired)
		if err := e.svc.ResetDaily(ctx, now); err != nil {
			e.logger.Error("daily reset failed", "err", err)
		}
	}

	user := e.session.ActiveUser()
	if user == "" {
		return
	}

	clock := model.FormatClock(now)
	minuteKey := today + " " + clock
	for _, a := range e.svc.Snapshot() {
		if a.OwnerID != user {
			continue
		}
		e.check(ctx, a, now, clock, minuteKey)
	}

	for id, key := range e.fired {
		if key != minuteKey {
			delete(e.fired, id)
		}
	}
}

// check handles one record. A panic is contained to that record so the
// rest of the tick still runs.
func (e *Engine) check(ctx context.Context, a model.Alarm, now time.Time, clock, minuteKey string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("alarm check panicked", "alarm_id", a.ID, "panic", r)
		}
	}()

	if a.Status == model.StatusCompleted && a.LastTakenDate != model.Today(now) {
		if err := e.svc.Reactivate(ctx, a.ID, now); err != nil {
			e.logger.Error("reactivate failed", "alarm_id", a.ID, "err", err)
		}
		a.Status = model.StatusActive
	}

	if !a.Status.Triggerable() || a.ScheduledTime != clock || !a.DueOn(now) {
		return
	}
	if e.fired[a.ID] == minuteKey {
		return
	}
	e.fired[a.ID] = minuteKey
	e.emit(FireEvent{AlarmID: a.ID, OwnerID: a.OwnerID, Name: a.Name, Time: a.ScheduledTime, At: now})
}

func (e *Engine) emit(ev FireEvent) {
	select {
	case e.out <- ev:
		e.logger.Info("alarm fired", "alarm_id", ev.AlarmID, "time", ev.Time)
	default:
		atomic.AddUint64(&e.dropped, 1)
		e.logger.Warn("fire event dropped, consumer is behind", "alarm_id", ev.AlarmID)
	}
}
