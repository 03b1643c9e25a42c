package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/reports"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	dashboard, err := h.Service.Dashboard(r.Context(), user.TenantID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}
