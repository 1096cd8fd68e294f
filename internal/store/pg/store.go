package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
)

// PoolConfig ajustes del pool de conexiones.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open abre un *sql.DB con el driver pgx y verifica la conexión.
func Open(ctx context.Context, dsn string, cfg PoolConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("pg: dsn vacío")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return db, nil
}

// Store agrupa los repositorios de la aplicación sobre la conexión normal.
type Store struct {
	db *sql.DB

	Users    *UserStore
	Orders   *OrderStore
	Products *ProductStore
	Sales    *SaleStore
	Audit    *AuditStore
}

func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		Users:    &UserStore{db: db},
		Orders:   &OrderStore{db: db},
		Products: &ProductStore{db: db},
		Sales:    &SaleStore{db: db},
		Audit:    &AuditStore{db: db},
	}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

var (
	_ repository.UserRepository      = (*UserStore)(nil)
	_ repository.OrderRepository     = (*OrderStore)(nil)
	_ repository.ProductRepository   = (*ProductStore)(nil)
	_ repository.SaleRepository      = (*SaleStore)(nil)
	_ repository.AuditRepository     = (*AuditStore)(nil)
	_ repository.ChallengeRepository = (*ChallengeStore)(nil)
)

// parseUUID valida ids de usuario antes de enviarlos a una columna uuid.
// Un id malformado no puede existir, así que se reporta como ErrNotFound.
func parseUUID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repository.ErrNotFound
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
