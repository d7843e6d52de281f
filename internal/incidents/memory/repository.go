// Package memory provides an in-process implementation of the incidents repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
)

type entry struct {
	incident domain.Incident
	seq      uint64
}

// Repository implements incidents.Repository with a map guarded by a mutex.
// Incidents are copied on the way in and out.
type Repository struct {
	mu        sync.RWMutex
	incidents map[string]entry
	seq       uint64
}

// NewRepository creates an empty memory repository.
func NewRepository() *Repository {
	return &Repository{
		incidents: make(map[string]entry),
	}
}

// CreateIncident stores a new incident.
func (r *Repository) CreateIncident(_ context.Context, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.incidents[incident.ID] = entry{incident: clone(incident), seq: r.seq}
	return nil
}

// GetIncident retrieves an incident by its ID.
func (r *Repository) GetIncident(_ context.Context, id string) (*domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.incidents[id]
	if !ok {
		return nil, incidents.ErrIncidentNotFound
	}

	incident := clone(&e.incident)
	return &incident, nil
}

// ListIncidents returns incidents ordered by creation time, newest first.
func (r *Repository) ListIncidents(_ context.Context, filter incidents.IncidentFilter) ([]domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0, len(r.incidents))
	for _, e := range r.incidents {
		if filter.Matches(&e.incident) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.incident.CreatedAt.Equal(b.incident.CreatedAt) {
			return a.incident.CreatedAt.After(b.incident.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]domain.Incident, 0, len(entries))
	for i := range entries {
		result = append(result, clone(&entries[i].incident))
	}
	return result, nil
}

// UpdateIncident replaces a stored incident.
func (r *Repository) UpdateIncident(_ context.Context, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.incidents[incident.ID]
	if !ok {
		return incidents.ErrIncidentNotFound
	}

	updated := clone(incident)
	updated.CreatedAt = e.incident.CreatedAt
	r.incidents[incident.ID] = entry{incident: updated, seq: e.seq}
	return nil
}

// DeleteIncident removes an incident.
func (r *Repository) DeleteIncident(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.incidents[id]; !ok {
		return incidents.ErrIncidentNotFound
	}
	delete(r.incidents, id)
	return nil
}

// Ping always succeeds.
func (r *Repository) Ping(context.Context) error {
	return nil
}

func clone(incident *domain.Incident) domain.Incident {
	c := *incident
	if incident.IncidentEndDate != nil {
		end := *incident.IncidentEndDate
		c.IncidentEndDate = &end
	}
	return c
}
