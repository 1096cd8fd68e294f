package validation

import (
	"regexp"
	"strings"
)

// Reglas de SKU:
// - Mayúsculas, dígitos y "-" / "_" / ".".
// - Empieza y termina con [A-Z0-9].
// - Largo 1..32.
//
// Válidos: M-1, LAP-DELL-5420, SSD_1TB.NVME
// Inválidos: -M1, m1 (minúscula), "SKU 1", "".
var skuRe = regexp.MustCompile(`^[A-Z0-9](?:[A-Z0-9_\.-]{0,30}[A-Z0-9])?$`)

// Deliberadamente simple: local@dominio.tld sin espacios.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidSKU indica si s cumple el formato de SKU (ya normalizado a mayúsculas).
func ValidSKU(s string) bool {
	return skuRe.MatchString(s)
}

// ValidEmail es un chequeo de forma; la entrega la valida el SMTP.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
