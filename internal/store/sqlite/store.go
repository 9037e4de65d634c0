// Package sqlite provides the embedded, single-file prayer store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeefy/prayerjournal/internal/models"
	"github.com/jeefy/prayerjournal/internal/store"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// legacy databases created by the first release stored CURRENT_TIMESTAMP.
var timestampLayouts = []string{
	models.TimestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Store persists prayers in a SQLite file. The database/sql pool hands each
// call its own connection; SQLite serialises writers and busy_timeout makes
// contending writers wait instead of failing.
type Store struct {
	sqlDB *sql.DB
	path  string
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the SQLite file at path. The schema is not
// touched; call InitSchema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB, path: cleanPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) InitSchema(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return store.ErrNotConfigured
	}
	if _, err := s.sqlDB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) CountByPerson(ctx context.Context) (map[string]int, error) {
	if s == nil || s.sqlDB == nil {
		return nil, store.ErrNotConfigured
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT person_name, COUNT(*) FROM prayers GROUP BY person_name`)
	if err != nil {
		return nil, fmt.Errorf("count prayers: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan prayer count: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prayer counts: %w", err)
	}
	return counts, nil
}

func (s *Store) ListByPerson(ctx context.Context, name string) ([]models.Prayer, error) {
	if s == nil || s.sqlDB == nil {
		return nil, store.ErrNotConfigured
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, person_name, author_name, content, created_at
		   FROM prayers
		  WHERE person_name = ?
		  ORDER BY created_at ASC, id ASC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list prayers: %w", err)
	}
	defer rows.Close()

	out := []models.Prayer{}
	for rows.Next() {
		p, err := scanPrayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prayers: %w", err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, person, author, content string) (models.Prayer, error) {
	if s == nil || s.sqlDB == nil {
		return models.Prayer{}, store.ErrNotConfigured
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO prayers (person_name, author_name, content)
		 VALUES (?, ?, ?)
		 RETURNING id, person_name, author_name, content, created_at`,
		person, author, content,
	)
	p, err := scanPrayer(row)
	if err != nil {
		return models.Prayer{}, fmt.Errorf("insert prayer: %w", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrayer(row scanner) (models.Prayer, error) {
	var (
		p       models.Prayer
		created sql.NullString
	)
	if err := row.Scan(&p.ID, &p.PersonName, &p.AuthorName, &p.Content, &created); err != nil {
		return models.Prayer{}, fmt.Errorf("scan prayer: %w", err)
	}
	ts, err := parseTimestamp(created.String)
	if err != nil {
		return models.Prayer{}, fmt.Errorf("prayer %d: %w", p.ID, err)
	}
	p.CreatedAt = ts
	return p, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("created_at is missing")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse created_at %q", value)
}
