package api

import (
	"net/http"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/auth"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

type createMemberRequest struct {
	Name           string `json:"name" validate:"notblank,max=120"`
	Contact        string `json:"contact" validate:"notblank,max=60"`
	Email          string `json:"email" validate:"omitempty,email"`
	MembershipType string `json:"membership_type" validate:"notblank,max=40"`
	StartDate      string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type createTrainerRequest struct {
	Name      string `json:"name" validate:"notblank,max=120"`
	Specialty string `json:"specialty" validate:"max=120"`
	Contact   string `json:"contact" validate:"max=60"`
}

type createClassRequest struct {
	Name      string `json:"name" validate:"notblank,max=120"`
	TrainerID *int64 `json:"trainer_id" validate:"omitempty,gt=0"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
}

type createPaymentRequest struct {
	MemberID    int64   `json:"member_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	PaymentDate string  `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

type createAttendanceRequest struct {
	MemberID int64  `json:"member_id" validate:"required,gt=0"`
	ClassID  int64  `json:"class_id" validate:"required,gt=0"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// dateOrToday parses an optional YYYY-MM-DD value, defaulting to today. The format has
// already been checked by the validator.
func dateOrToday(value string, now time.Time) time.Time {
	if value == "" {
		return domain.Date(now)
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date(now)
	}
	return d
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.CanManageRecords) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		members, err := h.service.ListMembers(r.Context())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"members": mapViews(members, toMemberView)})
	case http.MethodPost:
		var req createMemberRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		now := h.clock()
		member, err := h.service.RegisterMember(r.Context(), domain.Member{
			Name:           req.Name,
			Contact:        req.Contact,
			Email:          req.Email,
			MembershipType: req.MembershipType,
			StartDate:      dateOrToday(req.StartDate, now),
		}, now)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMemberView(member))
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) trainers(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.CanManageRecords) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		trainers, err := h.service.ListTrainers(r.Context())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"trainers": mapViews(trainers, toTrainerView)})
	case http.MethodPost:
		var req createTrainerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		trainer, err := h.service.AddTrainer(r.Context(), domain.Trainer{
			Name:      req.Name,
			Specialty: req.Specialty,
			Contact:   req.Contact,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTrainerView(trainer))
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) classes(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.CanManageRecords) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		classes, err := h.service.ListClasses(r.Context())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"classes": mapViews(classes, toClassView)})
	case http.MethodPost:
		var req createClassRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		class, err := h.service.ScheduleClass(r.Context(), domain.Class{
			Name:      req.Name,
			TrainerID: req.TrainerID,
			Time:      req.Time,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toClassView(class))
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.CanManageRecords) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		payments, err := h.service.ListPayments(r.Context())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"payments": mapViews(payments, toPaymentView)})
	case http.MethodPost:
		var req createPaymentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		payment, err := h.service.RecordPayment(r.Context(), domain.Payment{
			MemberID:    req.MemberID,
			Amount:      req.Amount,
			PaymentDate: dateOrToday(req.PaymentDate, h.clock()),
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPaymentView(payment))
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) attendance(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.CanManageRecords) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		rows, err := h.service.ListAttendance(r.Context())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"attendance": mapViews(rows, toAttendanceView)})
	case http.MethodPost:
		var req createAttendanceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		row, err := h.service.RecordAttendance(r.Context(), domain.Attendance{
			MemberID: req.MemberID,
			ClassID:  req.ClassID,
			Date:     dateOrToday(req.Date, h.clock()),
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAttendanceView(row))
	default:
		methodNotAllowed(w)
	}
}
