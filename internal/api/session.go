package api

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      auth.Role `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	token, claims, err := h.authn.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		h.writeStoreError(w, r, err)
		return
	}
	h.logger.Info("staff login", zap.String("username", claims.Username), zap.String("role", string(claims.Role)))
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if err := h.authn.Logout(r.Context(), claims); err != nil {
		h.logger.Warn("logout failed", zap.String("username", claims.Username), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "revocation_unavailable", "unable to revoke token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
