package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/nutrid/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	if err := repo.Save(t.Context(), []model.Alarm{{
		ID:            "alarm_rt_1",
		OwnerID:       "user1",
		Name:          "Roundtrip",
		ScheduledTime: "오전 07 : 00",
		OriginalTime:  "오전 07 : 00",
		Status:        model.StatusActive,
	}}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.Get(t.Context(), "alarm_rt_1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Name != "Roundtrip" {
		t.Fatalf("unexpected name after roundtrip: %q", got.Name)
	}
}

func TestMigrateUpIsRepeatable(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "repeat.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}
}

func TestMigrateRecordsVersions(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "versions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = '0001_alarms'`).Scan(&n); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 0001_alarms recorded once, got %d", n)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no versions after down, got %d", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'alarms'`).Scan(&n); err != nil {
		t.Fatalf("query tables: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected alarms table dropped")
	}
}
