package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "en_attente"
	StatusConfirmed Status = "confirme"
	StatusArrived   Status = "arrive"
)

var statusAliases = map[string]Status{
	"en_attente": StatusPending,
	"pending":    StatusPending,
	"confirme":   StatusConfirmed,
	"confirmed":  StatusConfirmed,
	"arrive":     StatusArrived,
	"arrived":    StatusArrived,
}

// ParseStatus maps either encoding of a known status to its stored value.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

type Reservation struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email"`
	Date      string     `json:"date" gorm:"index"`
	Time      string     `json:"time"`
	Persons   int        `json:"persons"`
	Message   *string    `json:"message"`
	Status    Status     `json:"status" gorm:"index"`
	Timestamp *time.Time `json:"timestamp" gorm:"index"`
}

// ReservationFields is what a requester submits.
type ReservationFields struct {
	Name    string
	Phone   string
	Email   *string
	Date    string
	Time    string
	Persons int
	Message *string
	Status  Status
}

// NewReservation assigns the identifier and creation time. An empty status
// becomes pending.
func NewReservation(f ReservationFields, now time.Time) Reservation {
	ts := now.UTC()
	r := Reservation{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Phone:     f.Phone,
		Email:     f.Email,
		Date:      f.Date,
		Time:      f.Time,
		Persons:   f.Persons,
		Message:   f.Message,
		Status:    f.Status,
		Timestamp: &ts,
	}
	r.Backfill()
	return r
}

// Backfill fills defaults for fields missing in storage. It never writes back.
func (r *Reservation) Backfill() {
	if r.Status == "" {
		r.Status = StatusPending
	}
}

// SortKey orders reservations newest first. Legacy rows without a timestamp
// fall back to their date and time.
func (r *Reservation) SortKey() string {
	if r.Timestamp != nil && !r.Timestamp.IsZero() {
		return r.Timestamp.UTC().Format("2006-01-02T15:04:05.000000000Z")
	}
	return r.Date + " " + r.Time
}

// CustomerEmail returns the trimmed customer address, or "".
func (r *Reservation) CustomerEmail() string {
	if r.Email == nil {
		return ""
	}
	return strings.TrimSpace(*r.Email)
}
