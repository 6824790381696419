package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/nutrid/internal/model"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database file and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Alarm, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, scheduled_time, original_time, repeat_days, status, last_taken_date
		FROM alarms ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Alarm, 0)
	for rows.Next() {
		item, scanErr := scanAlarm(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (model.Alarm, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, scheduled_time, original_time, repeat_days, status, last_taken_date
		FROM alarms WHERE id = ?`, id)
	item, err := scanAlarm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Alarm{}, ErrNotFound
		}
		return model.Alarm{}, err
	}
	return item, nil
}

// Save replaces the table contents inside one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, alarms []model.Alarm) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM alarms`); err != nil {
		return fmt.Errorf("clear alarms: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO alarms (id, position, owner_id, name, scheduled_time, original_time, repeat_days, status, last_taken_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range alarms {
		days, marshalErr := marshalDays(a.RepeatDays)
		if marshalErr != nil {
			err = marshalErr
			return err
		}
		if _, err = stmt.ExecContext(ctx, a.ID, i, a.OwnerID, a.Name, a.ScheduledTime, a.OriginalTime, days, string(a.Status), nullString(a.LastTakenDate)); err != nil {
			return fmt.Errorf("insert alarm %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func marshalDays(days []string) (string, error) {
	if days == nil {
		days = []string{}
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlarm(s scanner) (model.Alarm, error) {
	var out model.Alarm
	var days string
	var status string
	var taken sql.NullString
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Name, &out.ScheduledTime, &out.OriginalTime, &days, &status, &taken); err != nil {
		return model.Alarm{}, err
	}
	if err := json.Unmarshal([]byte(days), &out.RepeatDays); err != nil {
		return model.Alarm{}, fmt.Errorf("decode repeat days for %s: %w", out.ID, err)
	}
	out.Status = model.Status(status)
	if taken.Valid {
		out.LastTakenDate = taken.String
	}
	return out, nil
}
