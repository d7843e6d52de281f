package incidents

import (
	"errors"
	"fmt"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Validation messages returned to API clients.
const (
	MsgTypeRequired        = "Incident type is required"
	MsgStartDateRequired   = "Incident start date is required"
	MsgEndDateBeforeStart  = "Incident end date must be after start date"
	MsgDescriptionRequired = "Description is required"
	MsgDescriptionTooShort = "Description should be at least 10 characters long"
	MsgStatusInvalid       = `Status must be either "open" or "closed"`
	MsgClosedWithoutEnd    = "Closed incidents must have an end date"
)

const (
	tagEndAfterStart = "end_after_start"
	tagClosedHasEnd  = "closed_has_end"
)

var incidentValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(incidentStructLevel, domain.Incident{})
	return v
}

func incidentStructLevel(sl validator.StructLevel) {
	incident, ok := sl.Current().Interface().(domain.Incident)
	if !ok {
		return
	}

	end := incident.IncidentEndDate
	if end != nil && !incident.IncidentStartDate.IsZero() && end.Before(incident.IncidentStartDate) {
		sl.ReportError(end, "incidentEndDate", "IncidentEndDate", tagEndAfterStart, "")
	}

	if incident.IsClosed() && end == nil {
		sl.ReportError(end, "incidentEndDate", "IncidentEndDate", tagClosedHasEnd, "")
	}
}

// Validate checks the incident against all field constraints and returns a
// *ValidationError listing every violation, or nil when the incident is valid.
// Text fields are expected to be normalized already.
func Validate(incident *domain.Incident) error {
	err := incidentValidator.Struct(incident)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validate incident: %w", err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return NewValidationError(messages...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "Type.required":
		return MsgTypeRequired
	case "IncidentStartDate.required":
		return MsgStartDateRequired
	case "IncidentEndDate." + tagEndAfterStart:
		return MsgEndDateBeforeStart
	case "IncidentEndDate." + tagClosedHasEnd:
		return MsgClosedWithoutEnd
	case "Description.required":
		return MsgDescriptionRequired
	case "Description.min":
		return MsgDescriptionTooShort
	case "Status.oneof":
		return MsgStatusInvalid
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
