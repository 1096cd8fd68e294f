package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse es el cuerpo JSON que recibe el cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if appErr.HTTPStatus == http.StatusTooManyRequests || appErr.HTTPStatus == http.StatusServiceUnavailable {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
