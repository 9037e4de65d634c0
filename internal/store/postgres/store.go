// Package postgres provides the networked prayer store backed by a pgx
// connection pool.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeefy/prayerjournal/internal/models"
	"github.com/jeefy/prayerjournal/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// DefaultMaxConns bounds the pool when Options leaves it unset.
const DefaultMaxConns = 10

// Options tunes the connection pool.
type Options struct {
	MaxConns int32
}

// Store persists prayers in PostgreSQL. Each call acquires its own pooled
// connection; write isolation is left to the server.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn and verifies it answers.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = opts.MaxConns
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = DefaultMaxConns
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *Store) InitSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return store.ErrNotConfigured
	}
	// simple protocol: the schema holds more than one statement.
	if _, err := s.pool.Exec(ctx, schemaSQL, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) CountByPerson(ctx context.Context) (map[string]int, error) {
	if s == nil || s.pool == nil {
		return nil, store.ErrNotConfigured
	}
	rows, err := s.pool.Query(ctx,
		`SELECT person_name, COUNT(*) FROM prayers GROUP BY person_name`)
	if err != nil {
		return nil, fmt.Errorf("count prayers: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan prayer count: %w", err)
		}
		counts[name] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prayer counts: %w", err)
	}
	return counts, nil
}

func (s *Store) ListByPerson(ctx context.Context, name string) ([]models.Prayer, error) {
	if s == nil || s.pool == nil {
		return nil, store.ErrNotConfigured
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, person_name, author_name, content, created_at
		   FROM prayers
		  WHERE person_name = $1
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
	if s == nil || s.pool == nil {
		return models.Prayer{}, store.ErrNotConfigured
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO prayers (person_name, author_name, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, person_name, author_name, content, created_at`,
		person, author, content,
	)
	p, err := scanPrayer(row)
	if err != nil {
		return models.Prayer{}, fmt.Errorf("insert prayer: %w", err)
	}
	return p, nil
}

func scanPrayer(row pgx.Row) (models.Prayer, error) {
	var (
		p       models.Prayer
		created time.Time
	)
	if err := row.Scan(&p.ID, &p.PersonName, &p.AuthorName, &p.Content, &created); err != nil {
		return models.Prayer{}, fmt.Errorf("scan prayer: %w", err)
	}
	p.CreatedAt = created.UTC().Truncate(time.Second)
	return p, nil
}
