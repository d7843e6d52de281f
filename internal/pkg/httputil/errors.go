package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrorMapping defines how a domain error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string // if empty, uses err.Error()
}

// HandleError maps a domain error to an HTTP response using provided mappings.
// If no mapping matches, logs the error and returns 500 Server error.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping, exposeDetails bool) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			msg := m.Message
			if msg == "" {
				msg = err.Error()
			}
			Error(w, m.Status, msg)
			return
		}
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	ServerError(w, "Server error", err, exposeDetails)
}

var titleCaser = cases.Title(language.English)

// NotFoundMessage returns the client message for a missing entity, e.g. "Incident not found".
func NotFoundMessage(entity string) string {
	return titleCaser.String(entity) + " not found"
}
