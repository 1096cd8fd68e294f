package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"Ana.Perez@MundoComputo.co": "a…@m….co",
		"x@y.com":                   "x@y.com",
		"abc":                       "***",
		"abcdef":                    "a…f",
		"":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskEmail(in), in)
	}
}
