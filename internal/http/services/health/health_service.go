// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/health"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// CheckFunc devuelve nil si el componente responde.
type CheckFunc func(ctx context.Context) error

// Deps contiene las dependencias inyectables para el health service.
// Un check nil se reporta como "disabled".
type Deps struct {
	DBCheck        CheckFunc // pool de la aplicación (crítico)
	ServiceDBCheck CheckFunc // pool de servicio, lectura de desafíos 2FA (crítico)
	CacheCheck     CheckFunc // sesiones provisionales y revocaciones
	TokenCheck     CheckFunc // firma y verificación de un token de prueba (crítico)
	Timeout        time.Duration
}

type Services struct {
	Health HealthService
}

func NewServices(d Deps) Services {
	return Services{Health: NewHealthService(d)}
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
		Version:    os.Getenv("SERVICE_VERSION"),
		Commit:     os.Getenv("SERVICE_COMMIT"),
	}

	hasErrors := false
	hasCriticalErrors := false

	checks := []struct {
		name     string
		fn       CheckFunc
		critical bool
	}{
		{"db", s.deps.DBCheck, true},
		{"db_service", s.deps.ServiceDBCheck, true},
		{"cache", s.deps.CacheCheck, false},
		{"jwt", s.deps.TokenCheck, true},
	}

	for _, c := range checks {
		if c.fn == nil {
			response.Components[c.name] = dto.HealthStatus{Status: "disabled"}
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		err := c.fn(cctx)
		cancel()
		if err != nil {
			response.Components[c.name] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			if c.critical {
				hasCriticalErrors = true
			} else {
				hasErrors = true
			}
			log.Error(c.name+" unavailable", logger.Err(err))
			continue
		}
		response.Components[c.name] = dto.HealthStatus{Status: "ok"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}
	return response
}
