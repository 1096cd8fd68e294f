package helpers

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ClientIP extrae la IP del cliente, considerando proxies.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// BearerToken devuelve el token de "Authorization: Bearer <token>" o "".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// WantsHTML indica una navegación de browser (Accept: text/html) y no una llamada de API.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html")
}

// QueryInt lee un entero del query string. Ausente devuelve def; inválido devuelve ok=false.
func QueryInt(r *http.Request, key string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
