package domain

import "time"

// Record event types written to the outbox when back-office records are created.
const (
	EventMemberJoined       = "member.joined"
	EventTrainerAdded       = "trainer.added"
	EventClassScheduled     = "class.scheduled"
	EventPaymentRecorded    = "payment.recorded"
	EventAttendanceRecorded = "attendance.recorded"
)

// Event is an outbox entry produced alongside a record insert.
type Event struct {
	Type          string
	AggregateType string
	AggregateID   int64
	Payload       any
}

// MemberJoined is emitted when a member is registered.
type MemberJoined struct {
	MemberID       int64  `json:"member_id"`
	Name           string `json:"name"`
	MembershipType string `json:"membership_type"`
	StartDate      string `json:"start_date"`
}

// TrainerAdded is emitted when a trainer is registered.
type TrainerAdded struct {
	TrainerID int64  `json:"trainer_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// ClassScheduled is emitted when a class is created.
type ClassScheduled struct {
	ClassID   int64  `json:"class_id"`
	Name      string `json:"name"`
	TrainerID *int64 `json:"trainer_id,omitempty"`
	Time      string `json:"time"`
}

// PaymentRecorded is emitted when a payment is taken.
type PaymentRecorded struct {
	PaymentID   int64   `json:"payment_id"`
	MemberID    int64   `json:"member_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// AttendanceRecorded is emitted when a member checks into a class.
type AttendanceRecorded struct {
	AttendanceID int64  `json:"attendance_id"`
	MemberID     int64  `json:"member_id"`
	ClassID      int64  `json:"class_id"`
	Date         string `json:"date"`
}

// MemberEvent builds the outbox event for a stored member.
func MemberEvent(m Member) Event {
	return Event{Type: EventMemberJoined, AggregateType: "member", AggregateID: m.ID, Payload: MemberJoined{
		MemberID:       m.ID,
		Name:           m.Name,
		MembershipType: m.MembershipType,
		StartDate:      formatDate(m.StartDate),
	}}
}

// TrainerEvent builds the outbox event for a stored trainer.
func TrainerEvent(t Trainer) Event {
	return Event{Type: EventTrainerAdded, AggregateType: "trainer", AggregateID: t.ID, Payload: TrainerAdded{
		TrainerID: t.ID,
		Name:      t.Name,
		Specialty: t.Specialty,
	}}
}

// ClassEvent builds the outbox event for a stored class.
func ClassEvent(c Class) Event {
	return Event{Type: EventClassScheduled, AggregateType: "class", AggregateID: c.ID, Payload: ClassScheduled{
		ClassID:   c.ID,
		Name:      c.Name,
		TrainerID: c.TrainerID,
		Time:      c.Time,
	}}
}

// PaymentEvent builds the outbox event for a stored payment.
func PaymentEvent(p Payment) Event {
	return Event{Type: EventPaymentRecorded, AggregateType: "payment", AggregateID: p.ID, Payload: PaymentRecorded{
		PaymentID:   p.ID,
		MemberID:    p.MemberID,
		Amount:      p.Amount,
		PaymentDate: formatDate(p.PaymentDate),
	}}
}

// AttendanceEvent builds the outbox event for a stored attendance row.
func AttendanceEvent(a Attendance) Event {
	return Event{Type: EventAttendanceRecorded, AggregateType: "attendance", AggregateID: a.ID, Payload: AttendanceRecorded{
		AttendanceID: a.ID,
		MemberID:     a.MemberID,
		ClassID:      a.ClassID,
		Date:         formatDate(a.Date),
	}}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
