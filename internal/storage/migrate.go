package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const versionsDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`

type migration struct {
	version string
	up      string
	down    string
}

// MigrateUp applies every embedded migration not yet recorded in
// schema_migrations, oldest first.
func MigrateUp(db *sql.DB) error {
	migrations, applied, err := prepare(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := step(db, m.version, m.up, `INSERT INTO schema_migrations (version) VALUES (?)`); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts applied migrations, newest first.
func MigrateDown(db *sql.DB) error {
	migrations, applied, err := prepare(db)
	if err != nil {
		return err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !applied[m.version] {
			continue
		}
		if err := step(db, m.version, m.down, `DELETE FROM schema_migrations WHERE version = ?`); err != nil {
			return err
		}
	}
	return nil
}

func prepare(db *sql.DB) ([]migration, map[string]bool, error) {
	if _, err := db.Exec(versionsDDL); err != nil {
		return nil, nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	migrations, err := loadMigrations()
	if err != nil {
		return nil, nil, err
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	return migrations, applied, rows.Err()
}

func loadMigrations() ([]migration, error) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(ups)
	out := make([]migration, 0, len(ups))
	for _, name := range ups {
		version := strings.TrimSuffix(path.Base(name), ".up.sql")
		up, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		down, err := migrationFiles.ReadFile(path.Join("migrations", version+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("read down migration %s: %w", version, err)
		}
		out = append(out, migration{version: version, up: string(up), down: string(down)})
	}
	return out, nil
}

func step(db *sql.DB, version, script, record string) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.Exec(script); err != nil {
		return fmt.Errorf("apply migration %s: %w", version, err)
	}
	if _, err = tx.Exec(record, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	return tx.Commit()
}
