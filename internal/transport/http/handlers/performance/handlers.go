package performancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/domain/performance"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
	"orbithr/internal/transport/http/shared"
)

type Handler struct {
	Service   *performance.Service
	Employees *core.Service
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *performance.Service, employees *core.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		read := middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)
		write := middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)

		r.With(read).Get("/goals", h.handleListGoals)
		r.With(write).Post("/goals", h.handleCreateGoal)
		r.With(read).Get("/goals/{goalID}/checkins", h.handleListCheckins)
		r.With(write).Post("/goals/{goalID}/checkins", h.handleCheckin)
		r.With(read).Get("/reviews", h.handleListReviews)
		r.With(write).Post("/reviews", h.handleCreateReview)
		r.With(write).Post("/reviews/{reviewID}/finalize", h.handleFinalizeReview)
		r.With(read).Get("/reviews/{reviewID}/feedback", h.handleListFeedback)
		r.With(write).Post("/reviews/{reviewID}/feedback", h.handleAddFeedback)
		r.With(read).Get("/promotions", h.handleListPromotions)
		r.With(write).Post("/promotions", h.handleCreatePromotion)
		r.With(read).Get("/summary", h.handleSummary)
	})
}

// employeeScope resolves the subject of a read: an explicit employeeId query
// parameter when present, otherwise the caller's own profile.
func (h *Handler) employeeScope(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		return employeeID, true
	}
	own, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "no employee profile linked to this account", requestID)
		return "", false
	}
	return own, true
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := h.employeeScope(w, r, requestID)
	if !ok {
		return
	}
	goals, err := h.Service.ListGoals(r.Context(), user.TenantID, employeeID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if goals == nil {
		goals = []performance.Goal{}
	}
	api.Success(w, goals, requestID)
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload performance.Goal
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	if payload.EmployeeID == "" {
		if own, err := h.Employees.EmployeeIDByUserID(r.Context(), user.TenantID, user.UserID); err == nil {
			payload.EmployeeID = own
		}
	}
	payload.CreatedBy = user.UserID

	id, err := h.Service.CreateGoal(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failWrite(w, err, requestID)
		return
	}

	if employee, err := h.Employees.GetEmployee(r.Context(), user.TenantID, payload.EmployeeID); err == nil && employee.UserID != "" && employee.UserID != user.UserID {
		h.notify(r, user.TenantID, employee.UserID, notifications.TypeGoalCreated, "New goal assigned", payload.Title)
	}
	h.record(r, user, "performance.goal.create", "goal", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListCheckins(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	checkins, err := h.Service.ListCheckins(r.Context(), user.TenantID, chi.URLParam(r, "goalID"))
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if checkins == nil {
		checkins = []performance.Checkin{}
	}
	api.Success(w, checkins, requestID)
}

func (h *Handler) handleCheckin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload performance.Checkin
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.GoalID = chi.URLParam(r, "goalID")
	payload.AuthorID = user.UserID

	id, err := h.Service.Checkin(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failWrite(w, err, requestID)
		return
	}
	h.record(r, user, "performance.goal.checkin", "goal_checkin", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := h.employeeScope(w, r, requestID)
	if !ok {
		return
	}
	reviews, err := h.Service.ListReviews(r.Context(), user.TenantID, employeeID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if reviews == nil {
		reviews = []performance.Review{}
	}
	api.Success(w, reviews, requestID)
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload performance.Review
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.ReviewerID = user.UserID

	id, err := h.Service.CreateReview(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failWrite(w, err, requestID)
		return
	}

	if employee, err := h.Employees.GetEmployee(r.Context(), user.TenantID, payload.EmployeeID); err == nil && employee.UserID != "" {
		h.notify(r, user.TenantID, employee.UserID, notifications.TypeReviewAssigned, "Performance review started",
			"A review for period "+payload.Period+" has been opened.")
	}
	h.record(r, user, "performance.review.create", "review", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleFinalizeReview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")
	if err := h.Service.FinalizeReview(r.Context(), user.TenantID, reviewID); err != nil {
		h.failWrite(w, err, requestID)
		return
	}
	h.record(r, user, "performance.review.finalize", "review", reviewID, nil)
	api.Success(w, map[string]string{"id": reviewID, "status": performance.ReviewStatusFinalized}, requestID)
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	feedback, err := h.Service.ListFeedback(r.Context(), user.TenantID, chi.URLParam(r, "reviewID"))
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if feedback == nil {
		feedback = []performance.Feedback{}
	}
	api.Success(w, feedback, requestID)
}

func (h *Handler) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload performance.Feedback
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.ReviewID = chi.URLParam(r, "reviewID")
	payload.FromUserID = user.UserID

	v := shared.NewValidator()
	v.Enum("relationship", payload.Relationship, performance.FeedbackSelf, performance.FeedbackManager, performance.FeedbackPeer, performance.FeedbackReport)
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.AddFeedback(r.Context(), user.TenantID, payload)
	if err != nil {
		h.failWrite(w, err, requestID)
		return
	}
	h.record(r, user, "performance.feedback.create", "review_feedback", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := h.employeeScope(w, r, requestID)
	if !ok {
		return
	}
	promotions, err := h.Service.ListPromotions(r.Context(), user.TenantID, employeeID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if promotions == nil {
		promotions = []performance.Promotion{}
	}
	api.Success(w, promotions, requestID)
}

func (h *Handler) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload performance.Promotion
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	payload.ApprovedBy = user.UserID

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	v.Required("toDesignation", payload.ToDesignation, "target designation is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreatePromotion(r.Context(), user.TenantID, payload)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	h.record(r, user, "performance.promotion.create", "promotion", id, payload)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := h.employeeScope(w, r, requestID)
	if !ok {
		return
	}
	summary, err := h.Service.SummaryFor(r.Context(), user.TenantID, employeeID)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) failWrite(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, performance.ErrGoalNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "goal not found", requestID)
	case errors.Is(err, performance.ErrReviewNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "review not found", requestID)
	case errors.Is(err, performance.ErrReviewFinalized):
		api.Fail(w, http.StatusConflict, api.CodeConflict, "review already finalized", requestID)
	case errors.Is(err, performance.ErrInvalidRating), errors.Is(err, performance.ErrInvalidProgress), errors.Is(err, performance.ErrMissingTitle):
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), requestID)
	default:
		api.Internal(w, requestID)
	}
}

func (h *Handler) notify(r *http.Request, tenantID, userID, ntype, title, body string) {
	if err := h.Notify.Notify(r.Context(), tenantID, userID, ntype, title, body); err != nil {
		slog.Warn("performance notification failed", "type", ntype, "err", err)
	}
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityType, entityID string, details any) {
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
