package incidents

import (
	"errors"

	"github.com/bissquit/incident-tracker/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	incidentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "incidents",
			Name:      "operations_total",
			Help:      "Total incident store operations by outcome",
		},
		[]string{"operation", "result"},
	)

	eventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "incidents",
			Name:      "event_publish_failures_total",
			Help:      "Lifecycle events that could not be published",
		},
		[]string{"event_type"},
	)
)

// recordOperation records the outcome of a mutating incident operation.
func recordOperation(operation string, err error) {
	incidentOperations.WithLabelValues(operation, operationResult(err)).Inc()
}

func operationResult(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.Is(err, ErrIncidentNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	default:
		return "error"
	}
}

func recordPublishFailure(eventType EventType) {
	eventPublishFailures.WithLabelValues(string(eventType)).Inc()
}
