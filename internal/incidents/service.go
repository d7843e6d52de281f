package incidents

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"github.com/google/uuid"
)

// Service implements incident business logic.
type Service struct {
	repo      Repository
	publisher EventPublisher
	now       func() time.Time
}

// NewService creates a new incident service.
// A nil publisher disables lifecycle events.
func NewService(repo Repository, publisher EventPublisher) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	Type              string
	IncidentStartDate time.Time
	IncidentEndDate   *time.Time
	Description       string
	Remarks           string
	Status            domain.IncidentStatus
}

// UpdateIncidentInput holds the fields to replace on an incident.
// Nil fields keep their current value.
type UpdateIncidentInput struct {
	Type              *string
	IncidentStartDate *time.Time
	IncidentEndDate   *time.Time
	Description       *string
	Remarks           *string
	Status            *domain.IncidentStatus
}

// Now returns the service clock reading used for timestamps and derived values.
func (s *Service) Now() time.Time {
	// Postgres keeps microseconds; truncating keeps stored and returned values equal.
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateIncident validates and stores a new incident.
func (s *Service) CreateIncident(ctx context.Context, input CreateIncidentInput) (*domain.Incident, error) {
	status := input.Status
	if status == "" {
		status = domain.IncidentStatusOpen
	}

	incident := &domain.Incident{
		Type:              input.Type,
		IncidentStartDate: input.IncidentStartDate,
		IncidentEndDate:   input.IncidentEndDate,
		Description:       input.Description,
		Remarks:           input.Remarks,
		Status:            status,
	}
	incident.Normalize()

	now := s.Now()
	defaultEndDate(incident, now)

	if err := Validate(incident); err != nil {
		recordOperation("create", err)
		return nil, err
	}

	incident.ID = uuid.NewString()
	incident.CreatedAt = now
	incident.UpdatedAt = now

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		recordOperation("create", err)
		return nil, fmt.Errorf("create incident: %w", err)
	}

	recordOperation("create", nil)
	s.publish(ctx, EventIncidentCreated, incident)
	return incident, nil
}

// GetIncident returns the incident with the given id.
func (s *Service) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetIncident(ctx, id)
}

// ListIncidents returns incidents ordered from newest to oldest.
func (s *Service) ListIncidents(ctx context.Context, filter IncidentFilter) ([]domain.Incident, error) {
	return s.repo.ListIncidents(ctx, filter)
}

// UpdateIncident merges the input into the stored incident and validates the
// resulting document as a whole before saving it.
func (s *Service) UpdateIncident(ctx context.Context, id string, input UpdateIncidentInput) (*domain.Incident, error) {
	incident, err := s.GetIncident(ctx, id)
	if err != nil {
		recordOperation("update", err)
		return nil, err
	}

	if input.Type != nil {
		incident.Type = *input.Type
	}
	if input.IncidentStartDate != nil {
		incident.IncidentStartDate = *input.IncidentStartDate
	}
	if input.IncidentEndDate != nil {
		end := *input.IncidentEndDate
		incident.IncidentEndDate = &end
	}
	if input.Description != nil {
		incident.Description = *input.Description
	}
	if input.Remarks != nil {
		incident.Remarks = *input.Remarks
	}
	if input.Status != nil {
		incident.Status = *input.Status
	}
	incident.Normalize()
	defaultEndDate(incident, s.Now())

	if err := Validate(incident); err != nil {
		recordOperation("update", err)
		return nil, err
	}

	if err := s.save(ctx, incident); err != nil {
		recordOperation("update", err)
		return nil, err
	}

	recordOperation("update", nil)
	s.publish(ctx, EventIncidentUpdated, incident)
	return incident, nil
}

// CloseIncident marks the incident closed and sets its end date to now.
func (s *Service) CloseIncident(ctx context.Context, id string) (*domain.Incident, error) {
	incident, err := s.GetIncident(ctx, id)
	if err != nil {
		recordOperation("close", err)
		return nil, err
	}

	end := s.Now()
	incident.Status = domain.IncidentStatusClosed
	incident.IncidentEndDate = &end

	if err := Validate(incident); err != nil {
		recordOperation("close", err)
		return nil, err
	}

	if err := s.save(ctx, incident); err != nil {
		recordOperation("close", err)
		return nil, err
	}

	recordOperation("close", nil)
	s.publish(ctx, EventIncidentClosed, incident)
	return incident, nil
}

// DeleteIncident permanently removes the incident.
func (s *Service) DeleteIncident(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		recordOperation("delete", err)
		return err
	}

	incident, err := s.repo.GetIncident(ctx, id)
	if err != nil {
		recordOperation("delete", err)
		return err
	}

	if err := s.repo.DeleteIncident(ctx, id); err != nil {
		recordOperation("delete", err)
		return err
	}

	recordOperation("delete", nil)
	s.publish(ctx, EventIncidentDeleted, incident)
	return nil
}

// Ping checks that the incident store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) save(ctx context.Context, incident *domain.Incident) error {
	incident.UpdatedAt = s.nextUpdatedAt(incident.UpdatedAt)

	if err := s.repo.UpdateIncident(ctx, incident); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	return nil
}

// nextUpdatedAt returns a timestamp strictly after prev.
func (s *Service) nextUpdatedAt(prev time.Time) time.Time {
	now := s.Now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (s *Service) publish(ctx context.Context, eventType EventType, incident *domain.Incident) {
	event := Event{
		Type:       eventType,
		Incident:   *incident,
		OccurredAt: s.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		recordPublishFailure(eventType)
		ctxlog.FromContext(ctx).Warn("failed to publish incident event",
			"event_type", eventType,
			"incident_id", incident.ID,
			"error", err,
		)
	}
}

// defaultEndDate stamps closed incidents that carry no end date with now.
func defaultEndDate(incident *domain.Incident, now time.Time) {
	if incident.IsClosed() && incident.IncidentEndDate == nil {
		end := now
		incident.IncidentEndDate = &end
	}
}

// canonicalID returns the lowercase hyphenated form of a UUID. Stores key
// incidents by that form only.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}
