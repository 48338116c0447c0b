package api

import "github.com/Priyanshux26/Gym-management-system/internal/domain"

type memberView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	Email          string `json:"email,omitempty"`
	MembershipType string `json:"membership_type"`
	StartDate      string `json:"start_date"`
}

type trainerView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Contact   string `json:"contact"`
}

type classView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TrainerID *int64 `json:"trainer_id"`
	Time      string `json:"time"`
}

type paymentView struct {
	ID          int64   `json:"id"`
	MemberID    int64   `json:"member_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

type attendanceView struct {
	ID       int64  `json:"id"`
	MemberID int64  `json:"member_id"`
	ClassID  int64  `json:"class_id"`
	Date     string `json:"date"`
}

func toMemberView(m domain.Member) memberView {
	return memberView{
		ID:             m.ID,
		Name:           m.Name,
		Contact:        m.Contact,
		Email:          m.Email,
		MembershipType: m.MembershipType,
		StartDate:      m.StartDate.Format(domain.DateLayout),
	}
}

func toTrainerView(t domain.Trainer) trainerView {
	return trainerView{ID: t.ID, Name: t.Name, Specialty: t.Specialty, Contact: t.Contact}
}

func toClassView(c domain.Class) classView {
	return classView{ID: c.ID, Name: c.Name, TrainerID: c.TrainerID, Time: c.Time}
}

func toPaymentView(p domain.Payment) paymentView {
	return paymentView{
		ID:          p.ID,
		MemberID:    p.MemberID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(domain.DateLayout),
	}
}

func toAttendanceView(a domain.Attendance) attendanceView {
	return attendanceView{
		ID:       a.ID,
		MemberID: a.MemberID,
		ClassID:  a.ClassID,
		Date:     a.Date.Format(domain.DateLayout),
	}
}

func mapViews[T, V any](items []T, fn func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
