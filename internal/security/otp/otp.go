// Package otp genera los códigos numéricos de un solo uso enviados por email.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

var ErrInvalidDigits = errors.New("otp: cantidad de dígitos inválida")

// Generate devuelve un código de n dígitos decimales (con ceros a la izquierda)
// usando crypto/rand.
func Generate(n int) (string, error) {
	if n < 4 || n > 10 {
		return "", ErrInvalidDigits
	}
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
