package admin

import (
	"net/http"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/admin"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

// LogsController es un handler tipo función: errores como {error}.
type LogsController struct {
	service svc.LogService
}

func NewLogsController(s svc.LogService) *LogsController {
	return &LogsController{service: s}
}

// Latest maneja GET /v1/admin/logs?limit=
func (c *LogsController) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, OPTIONS")
		helpers.WriteErrorJSON(w, http.StatusMethodNotAllowed, "Método no permitido")
		return
	}
	limit, ok := helpers.QueryInt(r, "limit", svc.DefaultLogLimit)
	if !ok {
		helpers.WriteErrorJSON(w, http.StatusBadRequest, "limit inválido")
		return
	}

	res, err := c.service.Latest(r.Context(), limit)
	if err != nil {
		logger.From(r.Context()).Error("logs fetch failed", logger.Layer("controller"), logger.Err(err))
		helpers.WriteErrorJSON(w, http.StatusInternalServerError, "Error al obtener los logs")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, res)
}
