// Package audit registra la actividad del back office (login, 2FA, sesiones,
// administración de usuarios, ventas) en audit_log y en el log estructurado.
package audit

import (
	"context"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

// Eventos
const (
	EventLogin           = "auth.login"
	EventTwoFactorVerify = "auth.2fa.verify"
	EventSessionIssued   = "auth.session.issue"
	EventLogout          = "auth.logout"
	EventUserCreated     = "admin.user.create"
	EventUserRoleChanged = "admin.user.set_role"
	EventUserToggled     = "admin.user.toggle_active"
	EventSaleCreated     = "sales.create"
	EventOrderStatus     = "orders.status"
	EventStockAdjusted   = "inventory.adjust"
	EventReceiptSent     = "receipts.email"
)

// Entry es un evento a registrar. ActorID vacío = anónimo.
type Entry struct {
	Event   string
	ActorID string
	Target  string
	Result  string
	Fields  map[string]any
}

// Recorder escribe eventos. Un Recorder nil o sin repositorio solo loguea.
type Recorder struct {
	repo repository.AuditRepository
	now  func() time.Time
}

func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Log nunca falla hacia el llamador: un error de persistencia queda en el log.
func (r *Recorder) Log(ctx context.Context, e Entry) {
	log := logger.From(ctx).With(logger.Component("audit"))
	log.Info("audit",
		logger.String("event", e.Event),
		logger.String("target", e.Target),
		logger.String("result", e.Result),
		logger.UserID(e.ActorID),
	)
	if r == nil || r.repo == nil {
		return
	}

	entry := repository.AuditEntry{
		Action:    e.Event,
		Target:    e.Target,
		Result:    e.Result,
		Detail:    e.Fields,
		CreatedAt: r.now().UTC(),
	}
	if e.ActorID != "" {
		actor := e.ActorID
		entry.ActorID = &actor
	}
	// El request puede terminar antes de que se escriba.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := r.repo.Append(wctx, entry); err != nil {
		log.Warn("audit append failed", logger.String("event", e.Event), logger.Err(err))
	}
}

// Latest devuelve las entradas más recientes.
func (r *Recorder) Latest(ctx context.Context, limit int) ([]repository.AuditEntry, error) {
	if r == nil || r.repo == nil {
		return nil, nil
	}
	return r.repo.Latest(ctx, limit)
}
