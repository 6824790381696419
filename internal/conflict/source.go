package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Source holds the active knowledge base and swaps it atomically when the
// backing file changes. Readers always see a complete table.
type Source struct {
	path    string
	current atomic.Pointer[KnowledgeBase]
	logger  *slog.Logger
}

// NewSource loads the table at path, or the embedded default when path is
// empty.
func NewSource(path string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Source{path: path, logger: logger}
	if path == "" {
		s.current.Store(Default())
		return s, nil
	}
	kb, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current.Store(kb)
	return s, nil
}

// Static wraps an already loaded table. Watch is a no-op for it.
func Static(kb *KnowledgeBase) *Source {
	s := &Source{logger: slog.Default()}
	s.current.Store(kb)
	return s
}

func (s *Source) Current() *KnowledgeBase {
	return s.current.Load()
}

// Reload re-reads the backing file. On failure the previous table stays.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	kb, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(kb)
	return nil
}

// Watch reloads the table whenever the file is written or replaced, until
// ctx is cancelled. The parent directory is watched so editors that save
// through rename are picked up.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(s.path)
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("conflict table reload failed, keeping previous table", "path", s.path, "err", err)
				continue
			}
			s.logger.Info("conflict table reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("conflict table watcher error", "err", err)
		}
	}
}
