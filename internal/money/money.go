// Package money formatea montos en centavos para recibos y respuestas.
package money

import (
	"strconv"
	"strings"
)

// Formatter formatea montos con separador de miles "." y decimales ",".
type Formatter struct {
	Symbol string
	// Decimals fuerza siempre ",cc". Si es false, los decimales solo se muestran cuando no son cero.
	Decimals bool
}

// Default es "$" sin decimales forzados.
var Default = Formatter{Symbol: "$"}

// Format formatea cents, p.ej. 123456700 -> "$1.234.567".
func (f Formatter) Format(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.Symbol)
	b.WriteString(groupThousands(strconv.FormatInt(whole, 10)))
	if f.Decimals || frac != 0 {
		b.WriteByte(',')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}
	return b.String()
}

// Format usa el formateador por defecto.
func Format(cents int64) string { return Default.Format(cents) }

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
