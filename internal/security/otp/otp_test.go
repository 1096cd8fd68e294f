package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		c, err := Generate(6)
		require.NoError(t, err)
		assert.Regexp(t, re, c)
		seen[c] = struct{}{}
	}
	// 50 códigos de 6 dígitos: colisiones masivas indicarían una fuente rota.
	assert.Greater(t, len(seen), 40)
}

func TestGenerate_InvalidDigits(t *testing.T) {
	for _, n := range []int{0, 3, 11} {
		_, err := Generate(n)
		assert.ErrorIs(t, err, ErrInvalidDigits)
	}
}
