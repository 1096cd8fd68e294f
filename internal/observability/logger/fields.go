package logger

import (
	"strings"

	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// =================================================================================
// NEGOCIO
// =================================================================================

// UserID identifica al usuario autenticado.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// MaskedEmail loguea "a…@m….co" en lugar del email completo.
func MaskedEmail(v string) zap.Field { return zap.String("email", maskEmail(v)) }

// Role es el rol resuelto del usuario (administrador, tecnico, ventas, inventario).
func Role(v string) zap.Field { return zap.String("role", v) }

// Route es la ruta del SPA evaluada por el guard.
func Route(v string) zap.Field { return zap.String("route", v) }

func OrderID(v string) zap.Field   { return zap.String("order_id", v) }
func ProductID(v string) zap.Field { return zap.String("product_id", v) }
func SaleID(v string) zap.Field    { return zap.String("sale_id", v) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: controller, service, repository.
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field  { return zap.Error(err) }

func Count(v int) zap.Field               { return zap.Int("count", v) }
func Any(key string, v any) zap.Field     { return zap.Any(key, v) }
func String(key, v string) zap.Field      { return zap.String(key, v) }
func Int(key string, v int) zap.Field     { return zap.Int(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }

func maskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		if len(s) <= 3 {
			return strings.Repeat("*", len(s))
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 1 {
		local = local[:1] + "…"
	}
	labels := strings.Split(domain, ".")
	if len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + "…"
	}
	return local + "@" + strings.Join(labels, ".")
}
