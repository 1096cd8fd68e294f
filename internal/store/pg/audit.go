package pg

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
)

// AuditStore implementa repository.AuditRepository sobre audit_log.
type AuditStore struct {
	db *sql.DB
}

func (s *AuditStore) Append(ctx context.Context, e repository.AuditEntry) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	detail := []byte("{}")
	if len(e.Detail) > 0 {
		b, err := json.Marshal(e.Detail)
		if err != nil {
			return err
		}
		detail = b
	}
	var actor sql.NullString
	if e.ActorID != nil {
		if _, err := parseUUID(*e.ActorID); err == nil {
			actor = sql.NullString{String: *e.ActorID, Valid: true}
		}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_id, action, target, result, detail)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, actor, e.Action, e.Target, e.Result, string(detail))
	return err
}

func (s *AuditStore) Latest(ctx context.Context, limit int) ([]repository.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_id, action, target, result, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1`, clampLimit(limit, 50, 500))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.AuditEntry
	for rows.Next() {
		var (
			e      repository.AuditEntry
			actor  sql.NullString
			detail []byte
		)
		if err := rows.Scan(&e.ID, &actor, &e.Action, &e.Target, &e.Result, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ActorID = strPtr(actor)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
