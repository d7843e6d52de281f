// Package incidents provides HTTP handlers and business logic for tracking incidents.
package incidents

import (
	"context"

	"github.com/bissquit/incident-tracker/internal/domain"
)

// Repository defines the interface for incident storage.
type Repository interface {
	CreateIncident(ctx context.Context, incident *domain.Incident) error
	GetIncident(ctx context.Context, id string) (*domain.Incident, error)
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error)
	UpdateIncident(ctx context.Context, incident *domain.Incident) error
	DeleteIncident(ctx context.Context, id string) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

// IncidentFilter holds filter options for listing incidents.
type IncidentFilter struct {
	Status *domain.IncidentStatus
}

// Matches reports whether the incident passes the filter.
func (f IncidentFilter) Matches(incident *domain.Incident) bool {
	if f.Status != nil && incident.Status != *f.Status {
		return false
	}
	return true
}
