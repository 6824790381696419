package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONLoadMissingFileIsEmpty(t *testing.T) {
	repo, err := NewJSONRepository(filepath.Join(t.TempDir(), "alarms_data.json"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestJSONSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "alarms_data.json")
	repo, err := NewJSONRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()

	if err := repo.Save(ctx, sampleAlarms()); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), `"scheduledTime": "오전 08 : 30"`) {
		t.Fatalf("unexpected file contents:\n%s", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "alarm_2" || got[1].LastTakenDate != "2026-02-09" {
		t.Fatalf("unexpected alarms: %#v", got)
	}
}

func TestJSONLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alarms_data.json")
	if err := os.WriteFile(path, []byte("[{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo, _ := NewJSONRepository(path)
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewJSONRepositoryRequiresPath(t *testing.T) {
	if _, err := NewJSONRepository("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
