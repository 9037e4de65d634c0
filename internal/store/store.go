package store

import (
	"context"
	"errors"

	"github.com/jeefy/prayerjournal/internal/models"
)

// ErrNotConfigured is returned when a store is used before it is opened or
// after it is closed.
var ErrNotConfigured = errors.New("storage is not configured")

// Store is the persistence boundary for prayers. Every backend must behave
// the same way observably: counts omit people with no prayers, listings are
// ordered by created_at then id, and Insert returns the row as stored.
type Store interface {
	// InitSchema creates the prayers table if it is missing. Safe to call on
	// every start.
	InitSchema(ctx context.Context) error
	CountByPerson(ctx context.Context) (map[string]int, error)
	ListByPerson(ctx context.Context, name string) ([]models.Prayer, error)
	Insert(ctx context.Context, person, author, content string) (models.Prayer, error)
	Close() error
}
