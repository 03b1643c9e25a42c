package corehandler

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
	"orbithr/internal/domain/payroll"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Payroll *payroll.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *core.Service, payrollSvc *payroll.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Payroll: payrollSvc, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/onboard", h.handleOnboard)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/birthdays", h.handleBirthdays)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDeactivate)
		r.With(middleware.RequirePermission(auth.PermOffersWrite, h.Perms)).Post("/{employeeID}/offer", h.handleCreateOffer)
		r.With(middleware.RequirePermission(auth.PermOffersRead, h.Perms)).Get("/{employeeID}/offer", h.handleGetOffer)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter := core.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	employees, err := h.Service.ListEmployees(r.Context(), user.TenantID, filter)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if employees == nil {
		employees = []core.Employee{}
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employee, err := h.Service.GetEmployee(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employee, err := h.Service.GetEmployeeByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "no employee profile linked to this account", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload core.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	id, err := h.Service.CreateEmployee(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failEmployeeWrite(w, err, requestID)
		return
	}
	h.record(r, user.TenantID, user.UserID, "core.employee.create", "employee", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload core.OnboardInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	if payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "password is required", requestID)
		return
	}

	employeeID, userID, err := h.Service.Onboard(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failEmployeeWrite(w, err, requestID)
		return
	}
	h.record(r, user.TenantID, user.UserID, "core.employee.onboard", "employee", employeeID, map[string]string{"userId": userID})
	api.Created(w, map[string]string{"employeeId": employeeID, "userId": userID}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	var payload core.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	if err := h.Service.UpdateEmployee(r.Context(), user.TenantID, employeeID, payload); err != nil {
		h.failEmployeeWrite(w, err, requestID)
		return
	}
	h.record(r, user.TenantID, user.UserID, "core.employee.update", "employee", employeeID, payload)
	api.Success(w, map[string]string{"id": employeeID}, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.DeactivateEmployee(r.Context(), user.TenantID, employeeID); err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	h.record(r, user.TenantID, user.UserID, "core.employee.deactivate", "employee", employeeID, nil)
	api.Success(w, map[string]string{"id": employeeID, "status": core.EmployeeStatusInactive}, requestID)
}

func (h *Handler) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 31 {
			days = parsed
		}
	}
	birthdays, err := h.Service.UpcomingBirthdays(r.Context(), user.TenantID, days)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if birthdays == nil {
		birthdays = []core.Birthday{}
	}
	api.Success(w, birthdays, requestID)
}

func (h *Handler) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if _, err := h.Service.GetEmployee(r.Context(), user.TenantID, employeeID); err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}

	var payload payroll.OfferInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	if payload.BasicPay <= 0 {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "basic pay must be positive", requestID)
		return
	}
	if payload.HRA < 0 || payload.DA < 0 || payload.SpecialAllowance < 0 || payload.PFDeduction < 0 || payload.Tax < 0 {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "salary components must not be negative", requestID)
		return
	}

	offer, err := h.Payroll.CreateOffer(r.Context(), user.TenantID, employeeID, payload)
	if err != nil {
		if errors.Is(err, payroll.ErrOfferExists) {
			api.Fail(w, http.StatusConflict, api.CodeConflict, "employee already has an offer", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	h.record(r, user.TenantID, user.UserID, "core.offer.create", "offer", offer.ID, offer)
	api.Created(w, offer, requestID)
}

func (h *Handler) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	offer, err := h.Payroll.OfferFor(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, payroll.ErrOfferNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "offer not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	api.Success(w, offer, requestID)
}

func (h *Handler) failEmployeeWrite(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", requestID)
	case errors.Is(err, core.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, api.CodeConflict, "email already in use", requestID)
	case errors.Is(err, core.ErrMissingFields):
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
	default:
		api.Internal(w, requestID)
	}
}

func (h *Handler) record(r *http.Request, tenantID, actorID, action, entityType, entityID string, details any) {
	if err := h.Audit.Record(r.Context(), tenantID, actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
