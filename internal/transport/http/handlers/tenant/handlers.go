package tenanthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/tenant"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

type Handler struct {
	Service *tenant.Service
	Audit   *audit.Service
}

func NewHandler(service *tenant.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tenants/register", h.handleRegister)
	r.With(middleware.RequireAuth).Get("/tenants/subscription", h.handleSubscription)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload tenant.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("slug", payload.Slug, "slug is required")
	v.Required("adminEmail", payload.AdminEmail, "admin email is required")
	v.Required("adminPassword", payload.AdminPassword, "admin password is required")
	if v.Reject(w, requestID) {
		return
	}

	registration, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrSlugTaken):
			api.Fail(w, http.StatusConflict, api.CodeConflict, "tenant slug already registered", requestID)
		case errors.Is(err, tenant.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, api.CodeConflict, "admin email already registered", requestID)
		case errors.Is(err, tenant.ErrMissingFields), errors.Is(err, tenant.ErrUnknownPlan):
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
		default:
			api.Internal(w, requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), registration.Tenant.ID, registration.AdminUserID, "tenant.register", "tenant", registration.Tenant.ID, requestID, shared.ClientIP(r), map[string]string{"slug": payload.Slug, "plan": payload.Plan}); err != nil {
		slog.Warn("audit tenant.register failed", "err", err)
	}
	api.Created(w, registration, requestID)
}

func (h *Handler) handleSubscription(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	subscription, err := h.Service.Subscription(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "no subscription found", requestID)
		return
	}
	api.Success(w, subscription, requestID)
}
