package domain

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Member is a gym member. StartDate is a calendar date at 00:00 UTC.
type Member struct {
	ID             int64
	Name           string
	Contact        string
	Email          string
	MembershipType string
	StartDate      time.Time
}

// Trainer leads classes.
type Trainer struct {
	ID        int64
	Name      string
	Specialty string
	Contact   string
}

// Class is a recurring session. TrainerID is nil when no trainer is assigned.
type Class struct {
	ID        int64
	Name      string
	TrainerID *int64
	Time      string // HH:MM
}

// Payment records money received from a member.
type Payment struct {
	ID          int64
	MemberID    int64
	Amount      float64
	PaymentDate time.Time
}

// Attendance records a member attending a class on a date.
type Attendance struct {
	ID       int64
	MemberID int64
	ClassID  int64
	Date     time.Time
}

// User is a back-office staff account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

// Date truncates t to its calendar date in t's location and re-anchors it at 00:00 UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
