package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/nutrid/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository persists the full ordered alarm list. Save always replaces the
// previous contents; there are no partial writes.
type Repository interface {
	Load(ctx context.Context) ([]model.Alarm, error)
	Save(ctx context.Context, alarms []model.Alarm) error
}
