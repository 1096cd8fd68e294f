// Package health contiene DTOs de /readyz.
package health

import "time"

type HealthStatus struct {
	Status  string `json:"status"` // ok | error | disabled
	Message string `json:"message,omitempty"`
}

// HealthResponse: Status es ready | degraded | unavailable.
type HealthResponse struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version,omitempty"`
	Commit     string                  `json:"commit,omitempty"`
	Components map[string]HealthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}
