// Package ids genera identificadores ordenables para órdenes, ventas y pagos.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New devuelve un ULID en texto (26 caracteres, ordenable por tiempo).
func New() string {
	return NewAt(time.Now())
}

// NewAt genera un ULID con el timestamp dado.
func NewAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid indica si s es un ULID bien formado.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
