package password

import (
	"strings"
	"unicode"
)

type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// Validate devuelve los motivos de rechazo (too_short, missing_upper, ...).
func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	return len(reasons) == 0, reasons
}

// Describe arma un mensaje legible en español a partir de los motivos.
func Describe(reasons []string) string {
	msgs := make([]string, 0, len(reasons))
	for _, r := range reasons {
		switch r {
		case "too_short":
			msgs = append(msgs, "es demasiado corta")
		case "missing_upper":
			msgs = append(msgs, "requiere una mayúscula")
		case "missing_lower":
			msgs = append(msgs, "requiere una minúscula")
		case "missing_digit":
			msgs = append(msgs, "requiere un dígito")
		case "missing_symbol":
			msgs = append(msgs, "requiere un símbolo")
		default:
			msgs = append(msgs, r)
		}
	}
	return "La contraseña " + strings.Join(msgs, ", ")
}
