// Package domain contains the core types of the incident tracker.
package domain

import (
	"strings"
	"time"
)

// IncidentStatus represents the lifecycle state of an incident.
type IncidentStatus string

// Incident statuses.
const (
	IncidentStatusOpen   IncidentStatus = "open"
	IncidentStatusClosed IncidentStatus = "closed"
)

// IsValid checks if the incident status is valid.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusClosed:
		return true
	}
	return false
}

// Incident represents a tracked operational event.
type Incident struct {
	ID                string         `json:"id"`
	Type              string         `json:"type" validate:"required"`
	IncidentStartDate time.Time      `json:"incidentStartDate" validate:"required"`
	IncidentEndDate   *time.Time     `json:"incidentEndDate,omitempty"`
	Description       string         `json:"description" validate:"required,min=10"`
	Remarks           string         `json:"remarks"`
	Status            IncidentStatus `json:"status" validate:"oneof=open closed"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Normalize trims surrounding whitespace from text fields.
func (i *Incident) Normalize() {
	i.Type = strings.TrimSpace(i.Type)
	i.Description = strings.TrimSpace(i.Description)
	i.Remarks = strings.TrimSpace(i.Remarks)
}

// IsClosed returns true if the incident is closed.
func (i *Incident) IsClosed() bool {
	return i.Status == IncidentStatusClosed
}

// DurationInDays returns the number of started days between the incident start
// and its end date, or now when the incident has no end date yet.
func (i *Incident) DurationInDays(now time.Time) int {
	if i.IncidentStartDate.IsZero() {
		return 0
	}

	end := now
	if i.IncidentEndDate != nil {
		end = *i.IncidentEndDate
	}

	// Whole seconds plus a nanosecond remainder; time.Duration overflows
	// past roughly 292 years.
	secs := end.Unix() - i.IncidentStartDate.Unix()
	nanos := int64(end.Nanosecond() - i.IncidentStartDate.Nanosecond())
	if nanos < 0 {
		secs--
		nanos += int64(time.Second)
	}
	if secs < 0 {
		secs = -secs
		if nanos > 0 {
			secs--
			nanos = int64(time.Second) - nanos
		}
	}

	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 || nanos > 0 {
		days++
	}
	return int(days)
}

const secondsPerDay = 24 * 60 * 60

// IncidentView extends Incident with values derived at read time.
type IncidentView struct {
	Incident
	DurationInDays int `json:"durationInDays"`
}

// NewIncidentView builds the read representation of an incident at the given time.
func NewIncidentView(incident *Incident, now time.Time) IncidentView {
	return IncidentView{
		Incident:       *incident,
		DurationInDays: incident.DurationInDays(now),
	}
}
