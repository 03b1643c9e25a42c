package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/domain/payroll"
	"orbithr/internal/export"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

var exportHeaders = []string{"Employee", "Gross", "LWP Days", "Deductions", "Net"}

type Handler struct {
	Service   *payroll.Service
	Employees *core.Service
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *payroll.Service, employees *core.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/export", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/runs", h.handleCommitRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}/export", h.handleRunExport)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}/payslips/{employeeID}", h.handlePayslip)
	})
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	month, year, ok := parsePeriod(w, r, requestID)
	if !ok {
		return
	}

	rows, err := h.Service.Preview(r.Context(), user.TenantID, month, year)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	api.Success(w, map[string]any{"month": month, "year": year, "rows": rows}, requestID)
}

type commitPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (h *Handler) handleCommitRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload commitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	run, rows, err := h.Service.CommitRun(r.Context(), user.TenantID, user.UserID, payload.Month, payload.Year)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, payroll.ErrEmptyRun):
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
		case errors.Is(err, payroll.ErrRunExists):
			api.Fail(w, http.StatusConflict, api.CodeConflict, "payroll already committed for this period", requestID)
		default:
			api.Internal(w, requestID)
		}
		return
	}

	for _, row := range rows {
		employee, err := h.Employees.GetEmployee(r.Context(), user.TenantID, row.EmployeeID)
		if err != nil || employee.UserID == "" {
			continue
		}
		if err := h.Notify.Notify(r.Context(), user.TenantID, employee.UserID, notifications.TypePayrollCommitted,
			"Payroll processed",
			fmt.Sprintf("Your payroll for %02d/%d has been processed.", run.Month, run.Year)); err != nil {
			slog.Warn("payroll notification failed", "employeeId", row.EmployeeID, "err", err)
		}
	}

	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, "payroll.run.commit", "payroll_run", run.ID, requestID, shared.ClientIP(r), map[string]any{"month": run.Month, "year": run.Year, "rows": len(rows)}); err != nil {
		slog.Warn("audit payroll.run.commit failed", "err", err)
	}
	api.Created(w, map[string]any{"run": run, "rows": rows}, requestID)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	runs, err := h.Service.Runs(r.Context(), user.TenantID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if runs == nil {
		runs = []payroll.Run{}
	}
	api.Success(w, runs, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	run, rows, err := h.Service.RunByID(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "payroll run not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	api.Success(w, map[string]any{"run": run, "rows": rows}, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	month, year, ok := parsePeriod(w, r, requestID)
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

	exportRows, err := h.Service.ExportRows(r.Context(), user.TenantID, month, year)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	rows := make([][]string, 0, len(exportRows))
	for _, row := range exportRows {
		rows = append(rows, []string{row.EmployeeName, row.Gross, row.LWPDays, row.Deductions, row.Net})
	}

	title := fmt.Sprintf("Payroll %02d-%d", month, year)
	filename := fmt.Sprintf("payroll-%d-%02d.%s", year, month, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if format == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		err = export.WritePDF(w, title, exportHeaders, rows)
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteExcel(w, "Payroll", exportHeaders, rows)
	}
	if err != nil {
		slog.Warn("payroll export write failed", "format", format, "err", err)
	}
}

func (h *Handler) handleRunExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "format must be xlsx or pdf", requestID)
		return
	}

	run, exportRows, err := h.Service.RunExportRows(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "payroll run not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	rows := make([][]string, 0, len(exportRows))
	for _, row := range exportRows {
		rows = append(rows, []string{row.EmployeeName, row.Gross, row.LWPDays, row.Deductions, row.Net})
	}

	title := fmt.Sprintf("Payroll %02d-%d", run.Month, run.Year)
	filename := fmt.Sprintf("payroll-%d-%02d.%s", run.Year, run.Month, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if format == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		err = export.WritePDF(w, title, exportHeaders, rows)
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteExcel(w, "Payroll", exportHeaders, rows)
	}
	if err != nil {
		slog.Warn("payroll run export write failed", "format", format, "err", err)
	}
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")
	employeeID := chi.URLParam(r, "employeeID")

	data, err := h.Service.PayslipPDF(r.Context(), user.TenantID, runID, employeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "payslip not found", requestID)
			return
		}
		api.Internal(w, requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("payslip-%s.pdf", employeeID)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("payslip write failed", "runId", runID, "err", err)
	}
}

func parsePeriod(w http.ResponseWriter, r *http.Request, requestID string) (int, int, bool) {
	month, errMonth := strconv.Atoi(r.URL.Query().Get("month"))
	year, errYear := strconv.Atoi(r.URL.Query().Get("year"))
	if errMonth != nil || errYear != nil || month < 1 || month > 12 || year <= 0 {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "month and year query parameters are required", requestID)
		return 0, 0, false
	}
	return month, year, true
}
