package conflict

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTable(t *testing.T, path, message string) {
	t.Helper()
	body := "rules:\n  - pairs: [[Iron, Tea]]\n    message: " + message + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
}

func TestNewSourceDefaultsToEmbeddedTable(t *testing.T) {
	src, err := NewSource("", nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, ok := src.Current().Message("칼슘", "철분"); !ok {
		t.Fatal("expected embedded table")
	}
	if err := src.Watch(t.Context()); err != nil {
		t.Fatalf("watch without file should be a no-op, got %v", err)
	}
}

func TestSourceReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	writeTable(t, path, "first")
	src, err := NewSource(path, nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	if err := os.WriteFile(path, []byte("rules: ["), 0o644); err != nil {
		t.Fatalf("corrupt table: %v", err)
	}
	if err := src.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if msg, _ := src.Current().Message("Iron", "Tea"); msg != "first" {
		t.Fatalf("expected previous table kept, got %q", msg)
	}
}

func TestSourceWatchPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	writeTable(t, path, "first")
	src, err := NewSource(path, nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if err := src.Watch(t.Context()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	writeTable(t, path, "second")
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if msg, _ := src.Current().Message("Iron", "Tea"); msg == "second" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for reload")
}
