package attendancehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/attendance"
	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/export"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

var exportHeaders = []string{"Employee #", "Name", "Designation", "Date", "Check In", "Check Out", "Hours", "Status"}

type Handler struct {
	Service   *attendance.Service
	Employees *core.Service
	Perms     middleware.PermissionStore
	Audit     *audit.Service
}

func NewHandler(service *attendance.Service, employees *core.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceExport, h.Perms)).Get("/export", h.handleExport)
	})
}

// checkPayload is the optional body for check-in and check-out. Both fields
// default: employeeId to the caller's own profile, the timestamp to now.
type checkPayload struct {
	EmployeeID   string `json:"employeeId"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
}

func decodeCheckPayload(r *http.Request) (checkPayload, error) {
	var payload checkPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return checkPayload{}, err
	}
	return payload, nil
}

// resolveTarget picks the employee the event applies to. Acting on another
// employee's record needs the employees write permission.
func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request, requestID, explicit string) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	own, ownErr := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
	if explicit == "" || explicit == own {
		if ownErr != nil && explicit == "" {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
			return "", false
		}
		if explicit == "" {
			return own, true
		}
		return explicit, true
	}

	allowed, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermEmployeesWrite)
	if err != nil {
		api.Internal(w, requestID)
		return "", false
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, api.CodeForbidden, "insufficient permissions", requestID)
		return "", false
	}
	if _, err := h.Employees.GetEmployee(r.Context(), user.TenantID, explicit); err != nil {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", requestID)
		return "", false
	}
	return explicit, true
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	payload, err := decodeCheckPayload(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	at := v.Timestamp("checkInTime", payload.CheckInTime)
	if v.Reject(w, requestID) {
		return
	}
	employeeID, ok := h.resolveTarget(w, r, requestID, payload.EmployeeID)
	if !ok {
		return
	}

	record, err := h.Service.CheckIn(r.Context(), user.TenantID, employeeID, at)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			api.Fail(w, http.StatusConflict, api.CodeConflict, "already checked out for this day", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	h.record(r, user, "attendance.check_in", record.ID)
	api.Created(w, record, requestID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	payload, err := decodeCheckPayload(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	at := v.Timestamp("checkOutTime", payload.CheckOutTime)
	if v.Reject(w, requestID) {
		return
	}
	employeeID, ok := h.resolveTarget(w, r, requestID, payload.EmployeeID)
	if !ok {
		return
	}

	record, err := h.Service.CheckOut(r.Context(), user.TenantID, employeeID, at)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoCheckIn):
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "no check-in recorded for today", requestID)
		case errors.Is(err, attendance.ErrAlreadyCheckedOut):
			api.Fail(w, http.StatusConflict, api.CodeConflict, "already checked out for today", requestID)
		case errors.Is(err, attendance.ErrInvalidDuration):
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, "check-out must be after check-in", requestID)
		default:
			api.Internal(w, requestID)
		}
		return
	}
	h.record(r, user, "attendance.check_out", record.ID)
	api.Success(w, record, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	filter, ok := h.parseFilter(w, r, requestID)
	if !ok {
		return
	}

	records, total, err := h.Service.List(r.Context(), user.TenantID, filter)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	api.Success(w, map[string]any{"records": records, "total": total}, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	filter, ok := h.parseFilter(w, r, requestID)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "format must be xlsx or pdf", requestID)
		return
	}

	exportRows, err := h.Service.ExportRows(r.Context(), user.TenantID, filter)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	rows := make([][]string, 0, len(exportRows))
	for _, row := range exportRows {
		rows = append(rows, []string{row.EmployeeNumber, row.Name, row.Designation, row.Date, row.CheckIn, row.CheckOut, row.Hours, row.Status})
	}

	filename := fmt.Sprintf("attendance-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if format == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		err = export.WritePDF(w, "Attendance Report", exportHeaders, rows)
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteExcel(w, "Attendance", exportHeaders, rows)
	}
	if err != nil {
		slog.Warn("attendance export write failed", "format", format, "err", err)
	}
}

// parseFilter reads employeeId, from, to and pagination. Reports validation
// failures itself and returns ok=false.
func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request, requestID string) (attendance.ListFilter, bool) {
	page := shared.ParsePagination(r, 50, 500)
	filter := attendance.ListFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	v := shared.NewValidator()
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, ok := v.Date("from", raw); ok {
			filter.From = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, ok := v.Date("to", raw); ok {
			filter.To = parsed
		}
	}
	v.DateOrder("from", filter.From, "to", filter.To)
	if v.Reject(w, requestID) {
		return attendance.ListFilter{}, false
	}
	return filter, true
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, recordID string) {
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, "attendance_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
