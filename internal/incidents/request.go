package incidents

import (
	"fmt"
	"strings"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
)

// acceptedDateLayouts lists the timestamp formats accepted in request bodies.
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// IncidentRequest is the request body for creating or updating an incident.
// All fields are optional at decode time; absent fields decode to nil.
type IncidentRequest struct {
	Type              *string `json:"type"`
	IncidentStartDate *string `json:"incidentStartDate"`
	IncidentEndDate   *string `json:"incidentEndDate"`
	Description       *string `json:"description"`
	Remarks           *string `json:"remarks"`
	Status            *string `json:"status"`
}

// ToCreateInput converts the request to service input.
// The returned error is a *ValidationError when a date cannot be parsed.
func (r *IncidentRequest) ToCreateInput() (CreateIncidentInput, error) {
	var input CreateIncidentInput
	var messages []string

	input.Type = deref(r.Type)
	input.Description = deref(r.Description)
	input.Remarks = deref(r.Remarks)
	input.Status = domain.IncidentStatus(strings.TrimSpace(deref(r.Status)))

	start, ok := parseDate(r.IncidentStartDate)
	if !ok {
		messages = append(messages, invalidDateMessage("incidentStartDate"))
	} else if start != nil {
		input.IncidentStartDate = *start
	}

	end, ok := parseDate(r.IncidentEndDate)
	if !ok {
		messages = append(messages, invalidDateMessage("incidentEndDate"))
	}
	input.IncidentEndDate = end

	if len(messages) > 0 {
		return CreateIncidentInput{}, NewValidationError(messages...)
	}
	return input, nil
}

// ToUpdateInput converts the request to service input.
// The returned error is a *ValidationError when a date cannot be parsed.
func (r *IncidentRequest) ToUpdateInput() (UpdateIncidentInput, error) {
	input := UpdateIncidentInput{
		Type:        r.Type,
		Description: r.Description,
		Remarks:     r.Remarks,
	}
	var messages []string

	if r.Status != nil {
		status := domain.IncidentStatus(strings.TrimSpace(*r.Status))
		input.Status = &status
	}

	if r.IncidentStartDate != nil {
		start, ok := parseDate(r.IncidentStartDate)
		switch {
		case !ok:
			messages = append(messages, invalidDateMessage("incidentStartDate"))
		case start == nil:
			// An explicitly blank start date removes a required field.
			messages = append(messages, MsgStartDateRequired)
		default:
			input.IncidentStartDate = start
		}
	}

	end, ok := parseDate(r.IncidentEndDate)
	if !ok {
		messages = append(messages, invalidDateMessage("incidentEndDate"))
	}
	input.IncidentEndDate = end

	if len(messages) > 0 {
		return UpdateIncidentInput{}, NewValidationError(messages...)
	}
	return input, nil
}

// parseDate returns nil for absent or blank values and false when the value
// matches none of the accepted layouts.
func parseDate(value *string) (*time.Time, bool) {
	if value == nil {
		return nil, true
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil, true
	}

	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC().Truncate(time.Microsecond)
			return &t, true
		}
	}
	return nil, false
}

func invalidDateMessage(field string) string {
	return fmt.Sprintf("Invalid date format for %s", field)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
