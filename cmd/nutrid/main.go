package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nutrid/internal/alarm"
	"github.com/sandeepkv93/nutrid/internal/config"
	"github.com/sandeepkv93/nutrid/internal/conflict"
	"github.com/sandeepkv93/nutrid/internal/logging"
	"github.com/sandeepkv93/nutrid/internal/scheduler"
	"github.com/sandeepkv93/nutrid/internal/session"
	"github.com/sandeepkv93/nutrid/internal/storage"
	"github.com/sandeepkv93/nutrid/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nutrid failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("NUTRID_CONFIG"))
	if err != nil {
		return err
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, repoCloser, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repoCloser.Close()

	kb, err := conflict.NewSource(cfg.ConflictTable, logger)
	if err != nil {
		return fmt.Errorf("load conflict table: %w", err)
	}
	if cfg.WatchConflictTable && cfg.ConflictTable != "" {
		if err := kb.Watch(ctx); err != nil {
			logger.Warn("conflict table watch disabled", "path", cfg.ConflictTable, "err", err)
		}
	}

	svc := alarm.NewService(repo, kb, alarm.Options{
		Logger:         logger,
		SnoozeMinutes:  cfg.SnoozeMinutes,
		ConflictWindow: cfg.ConflictWindowMinutes,
	})
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load alarms: %w", err)
	}

	sess := session.NewCurrent(session.Resolve(cfg.User))
	engine, err := scheduler.NewEngine(svc, sess, scheduler.Options{
		Interval:   cfg.TickInterval,
		BufferSize: cfg.SchedulerBuffer,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	engine.Start()
	defer engine.Stop()

	logger.Info("nutrid started", "user", sess.ActiveUser(), "backend", cfg.Backend, "alarms", len(svc.Snapshot()))

	m := update.NewModel(update.Options{
		Context:              ctx,
		Service:              svc,
		Engine:               engine,
		Session:              sess,
		Notifier:             update.ExecDesktopNotifier{},
		DesktopNotifications: cfg.DesktopNotifications,
		Logger:               logger,
	})
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	if n := engine.Dropped(); n > 0 {
		logger.Warn("fire events dropped during session", "count", n)
	}
	return nil
}

func openRepository(cfg config.Config) (storage.Repository, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := storage.OpenSQLite(cfg.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, repo, nil
	default:
		repo, err := storage.NewJSONRepository(cfg.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store: %w", err)
		}
		return repo, io.NopCloser(nil), nil
	}
}
