package alarm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/nutrid/internal/conflict"
	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/storage"
)

const (
	DefaultSnoozeMinutes  = 30
	DefaultConflictWindow = 2
)

// KnowledgeSource yields the conflict table in effect. *conflict.Source
// implements it and may swap the table at runtime.
type KnowledgeSource interface {
	Current() *conflict.KnowledgeBase
}

type Options struct {
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now            func() time.Time
	SnoozeMinutes  int
	ConflictWindow int
}

// SaveRequest is what the alarm editor submits. An empty EditID registers a
// new alarm; otherwise the alarm with that id is replaced.
type SaveRequest struct {
	Name   string
	Days   []string
	Time   string
	EditID string
}

type Service struct {
	store  *Store
	repo   storage.Repository
	kb     KnowledgeSource
	events hub
	logger *slog.Logger
	now    func() time.Time

	snoozeMinutes  int
	conflictWindow int

	idMu   sync.Mutex
	saveMu sync.Mutex
}

// NewService builds a service around repo. A nil repo keeps alarms in
// memory only.
func NewService(repo storage.Repository, kb KnowledgeSource, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SnoozeMinutes <= 0 {
		opts.SnoozeMinutes = DefaultSnoozeMinutes
	}
	if opts.ConflictWindow <= 0 {
		opts.ConflictWindow = DefaultConflictWindow
	}
	if kb == nil {
		kb = conflict.Static(conflict.Default())
	}
	return &Service{
		store:          NewStore(nil),
		repo:           repo,
		kb:             kb,
		logger:         opts.Logger,
		now:            opts.Now,
		snoozeMinutes:  opts.SnoozeMinutes,
		conflictWindow: opts.ConflictWindow,
	}
}

// Load replaces the in-memory records with the persisted ones. Records
// missing originalTime get it from scheduledTime and duplicate ids are
// dropped; if either happened the cleaned list is written back.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	seen := make(map[string]bool, len(loaded))
	cleaned := make([]model.Alarm, 0, len(loaded))
	migrated := false
	for _, a := range loaded {
		if seen[a.ID] {
			s.logger.Warn("dropping duplicate alarm id", "alarm_id", a.ID)
			migrated = true
			continue
		}
		seen[a.ID] = true
		if a.OriginalTime == "" {
			a.OriginalTime = a.ScheduledTime
			migrated = true
		}
		cleaned = append(cleaned, a)
	}
	s.store.Replace(cleaned)
	s.logger.Info("alarms loaded", "count", len(cleaned))

	if migrated {
		return s.persist(ctx, "load")
	}
	return nil
}

func (s *Service) Subscribe(fn Listener) *Subscription {
	return s.events.add(fn)
}

// Snapshot returns the live immutable record slice. Callers must not
// modify it; use Alarms for an owned copy.
func (s *Service) Snapshot() []model.Alarm {
	return s.store.Snapshot()
}

// Alarms returns copies of the records owned by ownerID, or of every record
// when ownerID is empty.
func (s *Service) Alarms(ownerID string) []model.Alarm {
	snap := s.store.Snapshot()
	out := make([]model.Alarm, 0, len(snap))
	for _, a := range snap {
		if ownerID != "" && a.OwnerID != ownerID {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}

func (s *Service) Get(id string) (model.Alarm, error) {
	a, ok := s.store.Get(id)
	if !ok {
		return model.Alarm{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

func (s *Service) Register(ctx context.Context, ownerID, name, at string, days []string) (model.Alarm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Alarm{}, errors.New("alarm: name is required")
	}
	t, err := model.ParseTime(at)
	if err != nil {
		return model.Alarm{}, err
	}

	s.idMu.Lock()
	rec := model.Alarm{
		ID:            s.nextID(),
		OwnerID:       ownerID,
		Name:          name,
		ScheduledTime: t.String(),
		OriginalTime:  t.String(),
		RepeatDays:    slices.Clone(days),
		Status:        model.StatusActive,
	}
	s.store.Append(rec)
	s.idMu.Unlock()

	s.logger.Info("alarm registered", "alarm_id", rec.ID, "owner", ownerID, "time", rec.ScheduledTime)
	return rec, s.persist(ctx, "register")
}

// nextID must be called with idMu held.
func (s *Service) nextID() string {
	ms := s.now().UnixMilli()
	for {
		id := "alarm_" + strconv.FormatInt(ms, 10)
		if !s.store.Has(id) {
			return id
		}
		ms++
	}
}

// Update replaces the stored record with the same id. The edited time
// becomes the new baseline. Unknown ids are ignored.
func (s *Service) Update(ctx context.Context, rec model.Alarm) error {
	t, err := model.ParseTime(rec.ScheduledTime)
	if err != nil {
		return err
	}
	rec = rec.Clone()
	rec.ScheduledTime = t.String()
	rec.OriginalTime = rec.ScheduledTime
	if rec.Status == "" {
		rec.Status = model.StatusActive
	}

	changed := s.store.Mutate(byID(rec.ID), func(a *model.Alarm) { *a = rec })
	if changed == 0 {
		s.logger.Debug("update ignored, alarm not found", "alarm_id", rec.ID)
		return nil
	}
	err = s.persist(ctx, "update")
	s.events.publish(Event{Kind: EventStatusChanged, AlarmID: rec.ID, Change: ChangeUpdated})
	return err
}

// Delete removes the alarm. Unknown ids are ignored and nothing is written.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store.Remove(id) == 0 {
		s.logger.Debug("delete ignored, alarm not found", "alarm_id", id)
		return nil
	}
	s.logger.Info("alarm deleted", "alarm_id", id)
	err := s.persist(ctx, "delete")
	s.events.publish(Event{Kind: EventStatusChanged, AlarmID: id, Change: ChangeDeleted})
	return err
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	today := model.Today(s.now())

	changed := s.store.Mutate(byID(id), func(a *model.Alarm) {
		switch status {
		case model.StatusCompleted:
			a.Status = model.StatusCompleted
			a.LastTakenDate = today
		case model.StatusSnoozed:
			if a.OriginalTime == "" {
				a.OriginalTime = a.ScheduledTime
			}
			next, err := model.AddMinutesText(a.ScheduledTime, s.snoozeMinutes)
			if err != nil {
				s.logger.Warn("snooze kept unparseable time", "alarm_id", a.ID, "err", err)
			}
			a.ScheduledTime = next
			a.Status = model.StatusSnoozed
		case model.StatusActive:
			a.Status = model.StatusActive
			a.LastTakenDate = ""
		}
	})
	if changed == 0 {
		s.logger.Debug("status change ignored, alarm not found", "alarm_id", id)
		return nil
	}
	s.logger.Info("alarm status changed", "alarm_id", id, "status", status)
	err := s.persist(ctx, "status")
	s.events.publish(Event{Kind: EventStatusChanged, AlarmID: id, Change: string(status)})
	return err
}

// SnoozeMinutes is how far a snooze pushes the scheduled time.
func (s *Service) SnoozeMinutes() int {
	return s.snoozeMinutes
}

// Save routes an editor submission to Register or Update. An edit always
// yields an ACTIVE record. When the edited alarm no longer exists the zero
// Alarm is returned.
func (s *Service) Save(ctx context.Context, ownerID string, req SaveRequest) (model.Alarm, error) {
	if req.EditID == "" {
		return s.Register(ctx, ownerID, req.Name, req.Time, req.Days)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Alarm{}, errors.New("alarm: name is required")
	}
	rec := model.Alarm{
		ID:            req.EditID,
		OwnerID:       ownerID,
		Name:          name,
		ScheduledTime: req.Time,
		RepeatDays:    slices.Clone(req.Days),
		Status:        model.StatusActive,
	}
	if err := s.Update(ctx, rec); err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			return model.Alarm{}, err
		}
		saved, _ := s.store.Get(rec.ID)
		return saved, err
	}
	saved, ok := s.store.Get(rec.ID)
	if !ok {
		return model.Alarm{}, nil
	}
	return saved, nil
}

// ResetDaily starts a new day: snoozed times go back to their baseline and
// every alarm becomes ACTIVE again. Observers get a single date event.
func (s *Service) ResetDaily(ctx context.Context, now time.Time) error {
	changed := s.store.Mutate(func(a model.Alarm) bool {
		drifted := a.OriginalTime != "" && a.ScheduledTime != a.OriginalTime
		return drifted || a.Status == model.StatusCompleted || a.Status == model.StatusSnoozed
	}, func(a *model.Alarm) {
		if a.OriginalTime != "" {
			a.ScheduledTime = a.OriginalTime
		}
		a.Status = model.StatusActive
	})
	s.logger.Info("daily reset", "date", model.Today(now), "reset", changed)

	var err error
	if changed > 0 {
		err = s.persist(ctx, "daily reset")
	}
	s.events.publish(Event{Kind: EventDateChanged})
	return err
}

// Reactivate turns a COMPLETED alarm whose lastTakenDate is not today back
// to ACTIVE. It covers day boundaries missed while the process was asleep.
func (s *Service) Reactivate(ctx context.Context, id string, now time.Time) error {
	today := model.Today(now)
	changed := s.store.Mutate(func(a model.Alarm) bool {
		return a.ID == id && a.Status == model.StatusCompleted && a.LastTakenDate != today
	}, func(a *model.Alarm) {
		a.Status = model.StatusActive
	})
	if changed == 0 {
		return nil
	}
	s.logger.Info("stale completion reactivated", "alarm_id", id)
	err := s.persist(ctx, "reactivate")
	s.events.publish(Event{Kind: EventStatusChanged, AlarmID: id, Change: string(model.StatusActive)})
	return err
}

// Related lists the substances name should be kept apart from.
func (s *Service) Related(name string) []string {
	return s.kb.Current().Related(name)
}

func (s *Service) persist(ctx context.Context, op string) error {
	if s.repo == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.repo.Save(ctx, s.store.Snapshot()); err != nil {
		s.logger.Error("failed to persist alarms", "op", op, "err", err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func byID(id string) func(model.Alarm) bool {
	return func(a model.Alarm) bool { return a.ID == id }
}
