package api

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/auth"
)

type dashboardResponse struct {
	Role             auth.Role         `json:"role"`
	Metrics          analytics.Metrics `json:"metrics"`
	RecentPayments   []paymentView     `json:"recent_payments"`
	RecentMembers    []memberView      `json:"recent_members,omitempty"`
	TodaysClasses    []classView       `json:"todays_classes,omitempty"`
	RecentAttendance []attendanceView  `json:"recent_attendance,omitempty"`
}

// dashboard renders the KPI tiles plus the role-specific recent activity lists.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if !authorize(w, r, auth.CanViewDashboard) {
		return
	}
	role, _ := auth.CurrentRole(r.Context())
	resp := dashboardResponse{Role: role}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		m, err := h.aggregator.ComputeMetrics(ctx, h.clock())
		resp.Metrics = m
		return err
	})
	if role == auth.RoleAdmin {
		g.Go(func() error {
			payments, err := h.service.RecentPayments(ctx, adminRecentPayments)
			resp.RecentPayments = mapViews(payments, toPaymentView)
			return err
		})
		g.Go(func() error {
			members, err := h.service.RecentMembers(ctx, adminRecentMembers)
			resp.RecentMembers = mapViews(members, toMemberView)
			return err
		})
	} else {
		g.Go(func() error {
			classes, err := h.service.TodaysClasses(ctx)
			resp.TodaysClasses = mapViews(classes, toClassView)
			return err
		})
		g.Go(func() error {
			rows, err := h.service.RecentAttendance(ctx, receptionRecentAttendance)
			resp.RecentAttendance = mapViews(rows, toAttendanceView)
			return err
		})
		g.Go(func() error {
			payments, err := h.service.RecentPayments(ctx, receptionRecentPayments)
			resp.RecentPayments = mapViews(payments, toPaymentView)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if !authorize(w, r, auth.CanViewReports) {
		return
	}
	reports, err := h.composer.ComputeReports(r.Context(), h.clock())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
