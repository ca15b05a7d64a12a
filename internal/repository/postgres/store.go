package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/sponsortrack/internal/repository"
)

//go:embed schema.sql
var schema string

// Store реализует repository.Store для PostgreSQL
type Store struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// PoolOptions настройки пула соединений
type PoolOptions struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// Connect создает пул, проверяет подключение и применяет схему
func Connect(ctx context.Context, dsn string, opts PoolOptions) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	poolConfig.MinConns = opts.MinConns
	if opts.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return NewStore(pool), nil
}

// NewStore создает Store поверх готового пула
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db, now: time.Now}
}

// Name возвращает метку хранилища
func (s *Store) Name() string {
	return repository.SourcePostgres
}

// Ping проверяет доступность БД
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул соединений
func (s *Store) Close(_ context.Context) error {
	s.db.Close()
	return nil
}
