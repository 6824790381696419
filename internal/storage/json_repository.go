package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/nutrid/internal/model"
)

// JSONRepository keeps alarms in a single pretty-printed JSON array file.
type JSONRepository struct {
	path string
}

func NewJSONRepository(path string) (*JSONRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: empty data path")
	}
	return &JSONRepository{path: path}, nil
}

func (r *JSONRepository) Path() string {
	return r.path
}

// Load returns an empty list when the file does not exist yet.
func (r *JSONRepository) Load(ctx context.Context) ([]model.Alarm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Alarm{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Alarm{}, nil
	}
	var out []model.Alarm
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	if out == nil {
		out = []model.Alarm{}
	}
	return out, nil
}

// Save serializes the whole list and replaces the file through a rename.
func (r *JSONRepository) Save(ctx context.Context, alarms []model.Alarm) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if alarms == nil {
		alarms = []model.Alarm{}
	}
	payload, err := json.MarshalIndent(alarms, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
