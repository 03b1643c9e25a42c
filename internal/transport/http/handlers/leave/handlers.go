package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/leave"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Employees *core.Service
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *leave.Service, employees *core.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleOverview)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/policies", h.handleListPolicies)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/policies", h.handleCreatePolicy)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Put("/policies/{policyID}", h.handleUpdatePolicy)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests/{requestID}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
		return
	}

	overview, err := h.Service.OverviewFor(r.Context(), user.TenantID, employeeID, time.Now().UTC().Year())
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	api.Success(w, overview, requestID)
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	policies, err := h.Service.ListPolicies(r.Context(), user.TenantID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if policies == nil {
		policies = []leave.Policy{}
	}
	api.Success(w, policies, requestID)
}

type policyPayload struct {
	Name        string  `json:"name"`
	DefaultDays float64 `json:"defaultDays"`
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload policyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.DefaultDays < 0 {
		v.Add("defaultDays", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreatePolicy(r.Context(), user.TenantID, payload.Name, payload.DefaultDays)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	h.record(r, user, "leave.policy.create", "leave_policy", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	policyID := chi.URLParam(r, "policyID")
	var payload policyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	if err := h.Service.UpdatePolicy(r.Context(), user.TenantID, policyID, payload.Name, payload.DefaultDays); err != nil {
		if errors.Is(err, leave.ErrPolicyNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "leave policy not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	h.record(r, user, "leave.policy.update", "leave_policy", policyID, payload)
	api.Success(w, map[string]string{"id": policyID}, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	// Approvers may inspect another employee's history; everyone else sees
	// their own.
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID != "" {
		allowed, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermLeaveApprove)
		if err != nil {
			api.Internal(w, requestID)
			return
		}
		if !allowed {
			api.Fail(w, http.StatusForbidden, api.CodeForbidden, "insufficient permissions", requestID)
			return
		}
	} else {
		own, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
			return
		}
		employeeID = own
	}

	requests, err := h.Service.ListRequests(r.Context(), user.TenantID, employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if requests == nil {
		requests = []leave.Request{}
	}
	api.Success(w, requests, requestID)
}

type requestPayload struct {
	PolicyID  string  `json:"policyId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	DaysLWP   float64 `json:"daysLwp"`
	Reason    string  `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
		return
	}

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("policyId", payload.PolicyID, "policy is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if payload.DaysLWP < 0 {
		v.Add("daysLwp", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreateRequest(r.Context(), user.TenantID, leave.Request{
		EmployeeID: employeeID,
		PolicyID:   payload.PolicyID,
		StartDate:  start,
		EndDate:    end,
		DaysLWP:    payload.DaysLWP,
		Reason:     payload.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInvalidRange), errors.Is(err, leave.ErrLWPExceedsDays):
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
		default:
			api.Internal(w, requestID)
		}
		return
	}

	h.notify(r, user.TenantID, user.UserID, notifications.TypeLeaveSubmitted, "Leave request submitted",
		fmt.Sprintf("Your leave request from %s to %s is pending approval.", start.Format("2006-01-02"), end.Format("2006-01-02")))
	h.record(r, user, "leave.request.create", "leave_request", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	leaveRequestID := chi.URLParam(r, "requestID")

	var request leave.Request
	var err error
	if approve {
		request, err = h.Service.Approve(r.Context(), user.TenantID, leaveRequestID, user.UserID)
	} else {
		request, err = h.Service.Reject(r.Context(), user.TenantID, leaveRequestID, user.UserID)
	}
	if err != nil {
		h.failRequestWrite(w, err, requestID)
		return
	}

	action, ntype, title := "leave.request.approve", notifications.TypeLeaveApproved, "Leave request approved"
	if !approve {
		action, ntype, title = "leave.request.reject", notifications.TypeLeaveRejected, "Leave request rejected"
	}
	if employee, err := h.Employees.GetEmployee(r.Context(), user.TenantID, request.EmployeeID); err == nil && employee.UserID != "" {
		h.notify(r, user.TenantID, employee.UserID, ntype, title,
			fmt.Sprintf("Your leave request from %s to %s was %s.", request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"), request.Status))
	}
	h.record(r, user, action, "leave_request", leaveRequestID, nil)
	api.Success(w, request, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
		return
	}

	leaveRequestID := chi.URLParam(r, "requestID")
	request, err := h.Service.Cancel(r.Context(), user.TenantID, leaveRequestID, employeeID)
	if err != nil {
		h.failRequestWrite(w, err, requestID)
		return
	}

	h.notify(r, user.TenantID, user.UserID, notifications.TypeLeaveCancelled, "Leave request cancelled",
		fmt.Sprintf("Your leave request from %s to %s was cancelled.", request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")))
	h.record(r, user, "leave.request.cancel", "leave_request", leaveRequestID, nil)
	api.Success(w, request, requestID)
}

func (h *Handler) failRequestWrite(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "leave request not found", requestID)
	case errors.Is(err, leave.ErrRequestDecided):
		api.Fail(w, http.StatusConflict, api.CodeConflict, "leave request already decided", requestID)
	default:
		api.Internal(w, requestID)
	}
}

func (h *Handler) notify(r *http.Request, tenantID, userID, ntype, title, body string) {
	if err := h.Notify.Notify(r.Context(), tenantID, userID, ntype, title, body); err != nil {
		slog.Warn("leave notification failed", "type", ntype, "err", err)
	}
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityType, entityID string, details any) {
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
