package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/model"
	"github.com/sandeepkv93/nutrid/internal/session"
)

func TestEngineStressConcurrentLifecycleCalls(t *testing.T) {
	svc := alarm.NewService(nil, nil, alarm.Options{})
	engine, err := NewEngine(svc, session.Static("alice"), Options{Interval: time.Millisecond, BufferSize: 4096})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				when := model.FormatTime((w+i)%24, i%60)
				a, err := svc.Register(t.Context(), "alice", fmt.Sprintf("w%d-%d", w, i), when, nil)
				if err != nil {
					t.Errorf("register failed: %v", err)
					return
				}
				switch i % 3 {
				case 0:
					err = svc.UpdateStatus(t.Context(), a.ID, model.StatusSnoozed)
				case 1:
					err = svc.UpdateStatus(t.Context(), a.ID, model.StatusCompleted)
				default:
					err = svc.Delete(t.Context(), a.ID)
				}
				if err != nil {
					t.Errorf("lifecycle call failed: %v", err)
					return
				}
				_ = svc.Alarms("alice")
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, a := range svc.Alarms("") {
		if seen[a.ID] {
			t.Fatalf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
	}
	kept := 0
	for i := 0; i < perWorker; i++ {
		if i%3 != 2 {
			kept++
		}
	}
	if len(seen) != workers*kept {
		t.Fatalf("unexpected record count: got=%d want=%d", len(seen), workers*kept)
	}
}
