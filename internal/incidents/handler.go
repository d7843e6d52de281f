package incidents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/pkg/ctxlog"
	"github.com/bissquit/incident-tracker/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrIncidentNotFound, Status: http.StatusNotFound, Message: httputil.NotFoundMessage("incident")},
	{Error: ErrInvalidID, Status: http.StatusBadRequest, Message: "Invalid incident id"},
}

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service      *Service
	exposeErrors bool
}

// NewHandler creates a new incidents handler.
// exposeErrors controls whether internal error details reach clients.
func NewHandler(service *Service, exposeErrors bool) *Handler {
	return &Handler{
		service:      service,
		exposeErrors: exposeErrors,
	}
}

// RegisterRoutes registers incident routes relative to the mount point.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListIncidents)
	r.Post("/", h.CreateIncident)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(incidentLogger)
		r.Get("/", h.GetIncident)
		r.Put("/", h.UpdateIncident)
		r.Delete("/", h.DeleteIncident)
		r.Patch("/close", h.CloseIncident)
	})
}

// incidentLogger tags the request logger with the incident id.
func incidentLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.With(r.Context(), "incident_id", chi.URLParam(r, "id"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	filter := IncidentFilter{}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := domain.IncidentStatus(raw)
		if !status.IsValid() {
			httputil.ValidationError(w, []string{MsgStatusInvalid})
			return
		}
		filter.Status = &status
	}

	list, err := h.service.ListIncidents(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	now := h.service.Now()
	views := make([]domain.IncidentView, 0, len(list))
	for i := range list {
		views = append(views, domain.NewIncidentView(&list[i], now))
	}

	httputil.List(w, len(views), views)
}

// GetIncident handles GET /incidents/{id}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	incident, err := h.service.GetIncident(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", h.view(incident))
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req IncidentRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := req.ToCreateInput()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	incident, err := h.service.CreateIncident(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "Incident created successfully", h.view(incident))
}

// UpdateIncident handles PUT /incidents/{id}.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	var req IncidentRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := req.ToUpdateInput()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	incident, err := h.service.UpdateIncident(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, "Incident updated successfully", h.view(incident))
}

// DeleteIncident handles DELETE /incidents/{id}.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteIncident(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, "Incident deleted successfully", nil)
}

// CloseIncident handles PATCH /incidents/{id}/close.
func (h *Handler) CloseIncident(w http.ResponseWriter, r *http.Request) {
	incident, err := h.service.CloseIncident(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, "Incident closed successfully", h.view(incident))
}

func (h *Handler) view(incident *domain.Incident) domain.IncidentView {
	return domain.NewIncidentView(incident, h.service.Now())
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httputil.ValidationError(w, validationErr.Messages)
		return
	}
	httputil.HandleError(r.Context(), w, err, errorMappings, h.exposeErrors)
}
