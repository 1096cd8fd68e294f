package admin

import (
	"context"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/admin"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

// LogService devuelve el log de actividad más reciente primero.
type LogService interface {
	Latest(ctx context.Context, limit int) (*dto.LogListResponse, error)
}

type logService struct {
	audit *audit.Recorder
}

func (s *logService) Latest(ctx context.Context, limit int) (*dto.LogListResponse, error) {
	switch {
	case limit <= 0:
		limit = DefaultLogLimit
	case limit > MaxLogLimit:
		limit = MaxLogLimit
	}
	rows, err := s.audit.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.LogListResponse{Items: make([]dto.LogEntry, 0, len(rows))}
	for _, e := range rows {
		out.Items = append(out.Items, dto.LogEntry{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Target:    e.Target,
			Result:    e.Result,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	out.Count = len(out.Items)
	return out, nil
}
