package observability

import (
	"github.com/kbukum/locator/provider"
)

// HealthStatus is the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth aggregates component health.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
}

// AddComponent appends ch and degrades the overall status when needed.
// A critical component that is down takes the service down; any other
// failure degrades it.
func (sh *ServiceHealth) AddComponent(ch Health, critical bool) {
	sh.Components = append(sh.Components, ch)

	switch {
	case ch.Status == HealthStatusDown && critical:
		sh.Status = HealthStatusDown
	case ch.Status != HealthStatusUp && sh.Status == HealthStatusUp:
		sh.Status = HealthStatusDegraded
	}
}

// CheckProvider reports whether g can currently hand out its service.
func CheckProvider[T any](name string, g provider.Getter[T]) Health {
	if _, err := g.GetService(); err != nil {
		h := Health{Name: name, Status: HealthStatusDown, Message: err.Error()}
		if code := errorCode(err); code != "factory" {
			h.Details = map[string]string{"code": code}
		}
		return h
	}
	return Health{Name: name, Status: HealthStatusUp}
}
