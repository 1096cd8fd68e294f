// Package migrate aplica migraciones SQL embebidas sobre Postgres.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

const defaultTable = "schema_migrations"

var ErrNothingApplied = errors.New("migrate: no hay migraciones aplicadas")

// Manager ejecuta migraciones NNNN_nombre.up.sql / .down.sql desde un fs.FS.
type Manager struct {
	db    *sql.DB
	files fs.FS
	dir   string
	table string
}

func NewManager(db *sql.DB, files fs.FS, dir string) *Manager {
	return &Manager{db: db, files: files, dir: dir, table: defaultTable}
}

// Up aplica todas las migraciones pendientes en orden. Devuelve las aplicadas.
func (m *Manager) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	executed, err := m.executed(ctx)
	if err != nil {
		return nil, err
	}
	names, err := m.collect(".up.sql")
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		if executed[name] {
			continue
		}
		if err := m.apply(ctx, name, true); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.From(ctx).Info("migración aplicada", logger.Component("migrate"), logger.String("name", name))
		applied = append(applied, name)
	}
	return applied, nil
}

// Down revierte la última migración aplicada.
func (m *Manager) Down(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}
	hist, err := m.Status(ctx)
	if err != nil {
		return "", err
	}
	if len(hist) == 0 {
		return "", ErrNothingApplied
	}
	last := hist[len(hist)-1]
	if err := m.apply(ctx, last, false); err != nil {
		return "", fmt.Errorf("rollback migration %s: %w", last, err)
	}
	return last, nil
}

// Status devuelve las migraciones aplicadas en orden.
func (m *Manager) Status(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`select name from %s order by name asc`, m.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, rows.Err()
}

func (m *Manager) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`
		create table if not exists %s (
			name text primary key,
			applied_at timestamptz not null default now()
		)`, m.table))
	return err
}

func (m *Manager) executed(ctx context.Context) (map[string]bool, error) {
	names, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

// apply ejecuta up o down de name y actualiza la tabla de control en la misma transacción.
func (m *Manager) apply(ctx context.Context, name string, up bool) error {
	file := name + ".up.sql"
	if !up {
		file = name + ".down.sql"
	}
	body, err := fs.ReadFile(m.files, path.Join(m.dir, file))
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(string(body)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if up {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`insert into %s(name, applied_at) values ($1, $2)`, m.table), name, time.Now().UTC())
	} else {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`delete from %s where name = $1`, m.table), name)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// collect devuelve los nombres base (sin sufijo) ordenados.
func (m *Manager) collect(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(m.files, m.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), suffix))
	}
	sort.Strings(names)
	return names, nil
}

// splitStatements separa por ';' ignorando los que están dentro de strings
// o comentarios de línea. Descarta sentencias vacías.
func splitStatements(sql string) []string {
	var stmts []string
	var cur strings.Builder
	inString, inComment := false, false

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
				cur.WriteRune(r)
			}
		case !inString && r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
			i++
		case r == '\'':
			inString = !inString
			cur.WriteRune(r)
		case r == ';' && !inString:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return stmts
}
