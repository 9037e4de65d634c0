package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jeefy/prayerjournal/internal/models"
)

// memoryStore is the in-memory implementation of Store used for testing and
// local smoke runs.
type memoryStore struct {
	mu      sync.RWMutex
	prayers []models.Prayer
	nextID  int64
	closed  bool
	now     func() time.Time
}

// NewMemory returns an empty in-memory Store. Nothing survives the process.
func NewMemory() Store {
	return &memoryStore{nextID: 1, now: time.Now}
}

func (s *memoryStore) InitSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrNotConfigured
	}
	return nil
}

func (s *memoryStore) CountByPerson(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrNotConfigured
	}
	counts := make(map[string]int)
	for _, p := range s.prayers {
		counts[p.PersonName]++
	}
	return counts, nil
}

func (s *memoryStore) ListByPerson(ctx context.Context, name string) ([]models.Prayer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrNotConfigured
	}
	out := []models.Prayer{}
	for _, p := range s.prayers {
		if p.PersonName == name {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) Insert(ctx context.Context, person, author, content string) (models.Prayer, error) {
	if err := ctx.Err(); err != nil {
		return models.Prayer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Prayer{}, ErrNotConfigured
	}
	p := models.Prayer{
		ID:         s.nextID,
		PersonName: person,
		AuthorName: author,
		Content:    content,
		CreatedAt:  s.now().UTC().Truncate(time.Second),
	}
	s.nextID++
	s.prayers = append(s.prayers, p)
	return p, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.prayers = nil
	return nil
}
