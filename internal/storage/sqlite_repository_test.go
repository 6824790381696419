package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/nutrid/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nutrid-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func sampleAlarms() []model.Alarm {
	return []model.Alarm{
		{
			ID:            "alarm_2",
			OwnerID:       "user1",
			Name:          "철분",
			ScheduledTime: "오전 08 : 30",
			OriginalTime:  "오전 08 : 00",
			RepeatDays:    []string{"월", "수"},
			Status:        model.StatusSnoozed,
		},
		{
			ID:            "alarm_1",
			OwnerID:       "user1",
			Name:          "칼슘",
			ScheduledTime: "오후 09 : 00",
			OriginalTime:  "오후 09 : 00",
			Status:        model.StatusCompleted,
			LastTakenDate: "2026-02-09",
		},
	}
}

func TestSQLiteSaveAndLoadKeepsOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleAlarms()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "alarm_2" || got[1].ID != "alarm_1" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if got[0].Status != model.StatusSnoozed || got[0].OriginalTime != "오전 08 : 00" {
		t.Fatalf("unexpected snoozed alarm: %#v", got[0])
	}
	if len(got[0].RepeatDays) != 2 || got[0].RepeatDays[1] != "수" {
		t.Fatalf("unexpected repeat days: %#v", got[0].RepeatDays)
	}
	if got[1].LastTakenDate != "2026-02-09" || len(got[1].RepeatDays) != 0 {
		t.Fatalf("unexpected completed alarm: %#v", got[1])
	}
	if got[0].LastTakenDate != "" {
		t.Fatalf("expected empty last taken date, got %q", got[0].LastTakenDate)
	}
}

func TestSQLiteSaveReplacesContents(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleAlarms()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, sampleAlarms()[1:]); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "alarm_1" {
		t.Fatalf("expected replaced contents, got %#v", got)
	}

	if _, err := repo.Get(ctx, "alarm_2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	one, err := repo.Get(ctx, "alarm_1")
	if err != nil || one.Name != "칼슘" {
		t.Fatalf("unexpected get result %#v %v", one, err)
	}
}

func TestSQLiteSaveRejectsInvalidStatus(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleAlarms()); err != nil {
		t.Fatalf("save: %v", err)
	}
	bad := sampleAlarms()
	bad[0].Status = model.Status("PAUSED")
	if err := repo.Save(ctx, bad); err == nil {
		t.Fatal("expected check constraint failure")
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected rollback to keep previous rows, got %d", len(got))
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load empty db: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty db, got %d rows", len(got))
	}
}
