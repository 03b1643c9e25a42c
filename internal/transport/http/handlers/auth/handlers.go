package authhandler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"orbithr/internal/domain/auth"
	cryptoutil "orbithr/internal/platform/crypto"
	"orbithr/internal/transport/http/api"
	"orbithr/internal/transport/http/middleware"
)

const (
	accessTokenTTL = 8 * time.Hour
	sessionTTL     = 30 * 24 * time.Hour
	resetTokenTTL  = 2 * time.Hour
)

type Handler struct {
	Store  *auth.Store
	Secret string
	Crypto *cryptoutil.Cipher
}

func NewHandler(store *auth.Store, secret string, crypto *cryptoutil.Cipher) *Handler {
	return &Handler{Store: store, Secret: secret, Crypto: crypto}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/logout", h.handleLogout)
		r.Post("/password/request-reset", h.handleRequestReset)
		r.Post("/password/reset", h.handleResetPassword)
		r.With(middleware.RequireAuth).Post("/mfa/setup", h.handleMFASetup)
		r.With(middleware.RequireAuth).Post("/mfa/enable", h.handleMFAEnable)
		r.With(middleware.RequireAuth).Post("/mfa/disable", h.handleMFADisable)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	user, err := h.Store.FindActiveUserByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials", requestID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials", requestID)
		return
	}

	if user.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "mfa code required", requestID)
			return
		}
		secret, err := h.mfaSecret(user.MFASecretEnc)
		if err != nil || secret == "" || !totp.Validate(payload.MFACode, secret) {
			api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid mfa code", requestID)
			return
		}
	}

	refreshToken, err := generateToken()
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	sessionID, err := h.Store.CreateSession(r.Context(), user.ID, auth.HashToken(refreshToken), time.Now().Add(sessionTTL))
	if err != nil {
		api.Internal(w, requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		SessionID: sessionID,
	}, accessTokenTTL)
	if err != nil {
		api.Internal(w, requestID)
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token":        token,
		"refreshToken": refreshToken,
		"user": map[string]string{
			"id":       user.ID,
			"tenantId": user.TenantID,
			"roleId":   user.RoleID,
			"role":     user.RoleName,
		},
	}, requestID)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	sessionID, userID, err := h.Store.SessionByRefreshToken(r.Context(), auth.HashToken(payload.RefreshToken))
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "session expired", requestID)
		return
	}
	user, err := h.Store.AuthUserByID(r.Context(), userID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "session expired", requestID)
		return
	}

	newRefreshToken, err := generateToken()
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if err := h.Store.RotateSession(r.Context(), sessionID, auth.HashToken(newRefreshToken), time.Now().Add(sessionTTL)); err != nil {
		api.Internal(w, requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		SessionID: sessionID,
	}, accessTokenTTL)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	api.Success(w, map[string]any{"token": token, "refreshToken": newRefreshToken}, requestID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Store.RevokeSession(r.Context(), user.SessionID); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, requestID)
}

func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload resetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	// Response does not reveal whether the email exists.
	if userID, err := h.Store.UserIDByEmail(r.Context(), payload.Email); err == nil {
		token, err := generateToken()
		if err != nil {
			slog.Warn("password reset token generation failed", "userId", userID, "err", err)
		} else if err := h.Store.CreatePasswordReset(r.Context(), userID, auth.HashToken(token), time.Now().Add(resetTokenTTL)); err != nil {
			slog.Warn("password reset insert failed", "userId", userID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "reset_requested"}, requestID)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "password must be at least 8 characters", requestID)
		return
	}

	tokenHash := auth.HashToken(payload.Token)
	userID, err := h.Store.PasswordResetUserID(r.Context(), tokenHash)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid or expired token", requestID)
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Internal(w, requestID)
		return
	}
	if err := h.Store.MarkPasswordResetUsed(r.Context(), tokenHash); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "password_reset"}, requestID)
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "authentication required", requestID)
		return
	}
	if h.Crypto == nil || !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "mfa requires encryption key", requestID)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "OrbitHR",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	secret := key.Secret()
	encrypted, err := h.Crypto.SealMFASecret(secret)
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	if err := h.Store.UpdateMFASecret(r.Context(), user.UserID, encrypted); err != nil {
		api.Internal(w, requestID)
		return
	}
	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": key.URL()}, requestID)
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "authentication required", requestID)
		return
	}
	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid request payload", requestID)
		return
	}

	secretEnc, err := h.Store.GetMFASecret(r.Context(), user.UserID)
	if err != nil || len(secretEnc) == 0 {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "mfa setup required", requestID)
		return
	}
	secret, err := h.mfaSecret(secretEnc)
	if err != nil || secret == "" || !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid mfa code", requestID)
		return
	}

	if err := h.Store.SetMFAEnabled(r.Context(), user.UserID, enable); err != nil {
		api.Internal(w, requestID)
		return
	}
	status := "disabled"
	if enable {
		status = "enabled"
	}
	api.Success(w, map[string]string{"status": status}, requestID)
}

func (h *Handler) mfaSecret(encrypted []byte) (string, error) {
	if h.Crypto != nil && h.Crypto.Configured() {
		return h.Crypto.OpenMFASecret(encrypted)
	}
	return string(encrypted), nil
}

func generateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
