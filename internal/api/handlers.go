// Package api exposes HTTP handlers for the gym back office.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/auth"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

// Dashboard list sizes per role.
const (
	adminRecentPayments       = 5
	adminRecentMembers        = 5
	receptionRecentAttendance = 5
	receptionRecentPayments   = 3
)

// Handler coordinates HTTP requests with the record service and the analytics core.
type Handler struct {
	service    *domain.Service
	aggregator *analytics.Aggregator
	composer   *analytics.Composer
	authn      *auth.Authenticator
	clock      func() time.Time
	logger     *zap.Logger
}

// Deps bundles the collaborators a Handler needs.
type Deps struct {
	Service       *domain.Service
	Aggregator    *analytics.Aggregator
	Composer      *analytics.Composer
	Authenticator *auth.Authenticator
	Clock         func() time.Time
	Logger        *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(deps Deps) *Handler {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:    deps.Service,
		aggregator: deps.Aggregator,
		composer:   deps.Composer,
		authn:      deps.Authenticator,
		clock:      clock,
		logger:     logger,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/v1/login", h.login)
	mux.HandleFunc("/v1/logout", h.logout)
	mux.HandleFunc("/v1/dashboard", h.dashboard)
	mux.HandleFunc("/v1/reports", h.reports)
	mux.HandleFunc("/v1/members", h.members)
	mux.HandleFunc("/v1/trainers", h.trainers)
	mux.HandleFunc("/v1/classes", h.classes)
	mux.HandleFunc("/v1/payments", h.payments)
	mux.HandleFunc("/v1/attendance", h.attendance)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorize checks the caller's role against a capability at the entry of a handler.
func authorize(w http.ResponseWriter, r *http.Request, can func(auth.Role) bool) bool {
	role, ok := auth.CurrentRole(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !can(role) {
		writeError(w, http.StatusForbidden, "forbidden", "role "+string(role)+" may not access this resource")
		return false
	}
	return true
}

// writeStoreError maps a failed operation onto an HTTP status.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidReference):
		writeError(w, http.StatusUnprocessableEntity, "invalid_reference", "referenced record does not exist")
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Warn("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "the data store is temporarily unavailable")
	case errors.Is(err, domain.ErrQueryFailure):
		h.logger.Error("store query failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query_failure", "unable to complete request")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "unable to complete request")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}
