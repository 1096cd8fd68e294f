package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
)

const maxBodyBytes = 1 << 20

// ErrNotJSON el request no declara Content-Type application/json.
var ErrNotJSON = errors.New("Content-Type debe ser application/json")

// DecodeJSON decodifica el body sin escribir nada en la respuesta.
// Limita el body a 1MB. Un body vacío deja v sin tocar.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return ErrNotJSON
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ReadJSON decodifica JSON de forma tolerante (no falla por campos desconocidos).
// Devuelve false si ya escribió el error HTTP.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, ErrNotJSON) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return false
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			httperrors.WriteError(w, httperrors.New(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				"El cuerpo de la solicitud excede el tamaño máximo permitido."))
			return false
		}
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return false
	}
	return true
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorJSON escribe el error plano {"error": message} de los handlers tipo función.
func WriteErrorJSON(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
