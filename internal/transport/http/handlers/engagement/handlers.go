package engagementhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/engagement"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

type Handler struct {
	Service   *engagement.Service
	Employees *core.Service
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *engagement.Service, employees *core.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/engagement", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEngagementRead, h.Perms)).Get("/announcements", h.handleListAnnouncements)
		r.With(middleware.RequirePermission(auth.PermEngagementWrite, h.Perms)).Post("/announcements", h.handleCreateAnnouncement)
		r.With(middleware.RequirePermission(auth.PermEngagementRead, h.Perms)).Get("/recognitions", h.handleListRecognitions)
		r.With(middleware.RequirePermission(auth.PermEngagementRead, h.Perms)).Post("/recognitions", h.handleCreateRecognition)
		r.With(middleware.RequirePermission(auth.PermEngagementRead, h.Perms)).Get("/birthdays", h.handleBirthdays)
	})
}

func (h *Handler) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 31 {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, "days must be between 1 and 31", requestID)
			return
		}
		days = parsed
	}

	birthdays, err := h.Employees.UpcomingBirthdays(r.Context(), user.TenantID, days)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if birthdays == nil {
		birthdays = []core.Birthday{}
	}
	api.Success(w, birthdays, requestID)
}

func (h *Handler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 20, 100)
	announcements, err := h.Service.ListAnnouncements(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if announcements == nil {
		announcements = []engagement.Announcement{}
	}
	api.Success(w, announcements, requestID)
}

func (h *Handler) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload engagement.Announcement
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.AuthorID = user.UserID

	id, err := h.Service.CreateAnnouncement(r.Context(), user.TenantID, payload)
	if err != nil {
		if errors.Is(err, engagement.ErrMissingTitle) {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	h.record(r, user, "engagement.announcement.create", "announcement", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListRecognitions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 20, 100)
	recognitions, err := h.Service.ListRecognitions(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if recognitions == nil {
		recognitions = []engagement.Recognition{}
	}
	api.Success(w, recognitions, requestID)
}

func (h *Handler) handleCreateRecognition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload engagement.Recognition
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.FromUserID = user.UserID

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreateRecognition(r.Context(), user.TenantID, payload)
	if err != nil {
		if errors.Is(err, engagement.ErrMissingMessage) {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}

	if employee, err := h.Employees.GetEmployee(r.Context(), user.TenantID, payload.EmployeeID); err == nil && employee.UserID != "" {
		if err := h.Notify.Notify(r.Context(), user.TenantID, employee.UserID, notifications.TypeRecognitionReceived, "You received a recognition", payload.Message); err != nil {
			slog.Warn("recognition notification failed", "err", err)
		}
	}
	h.record(r, user, "engagement.recognition.create", "recognition", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityType, entityID string, details any) {
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
