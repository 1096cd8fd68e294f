package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0"},
		{100, "$1"},
		{99900, "$999"},
		{100000, "$1.000"},
		{123456700, "$1.234.567"},
		{150, "$1,50"},
		{105, "$1,05"},
		{-250000, "-$2.500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.cents), tt.cents)
	}
}

func TestFormatter_Decimals(t *testing.T) {
	f := Formatter{Symbol: "COP ", Decimals: true}
	assert.Equal(t, "COP 1.000,00", f.Format(100000))
	assert.Equal(t, "COP 0,07", f.Format(7))
}
