package models

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   Status
		wantOK bool
	}{
		{"en_attente", StatusPending, true},
		{"pending", StatusPending, true},
		{" Confirmed ", StatusConfirmed, true},
		{"confirme", StatusConfirmed, true},
		{"ARRIVE", StatusArrived, true},
		{"arrived", StatusArrived, true},
		{"cancelled", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	a := NewReservation(ReservationFields{Name: "Yassine", Phone: "0600000000", Date: "2025-03-10", Time: "20:00", Persons: 4}, now)
	b := NewReservation(ReservationFields{Name: "Salma", Phone: "0611111111", Date: "2025-03-10", Time: "21:00", Persons: 2, Status: StatusConfirmed}, now)

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Status != StatusPending {
		t.Errorf("expected pending status, got %q", a.Status)
	}
	if b.Status != StatusConfirmed {
		t.Errorf("expected confirmed status to be kept, got %q", b.Status)
	}
	if a.Timestamp == nil || a.Timestamp.Location() != time.UTC || !a.Timestamp.Equal(now) {
		t.Errorf("expected UTC timestamp equal to now, got %v", a.Timestamp)
	}
	if a.Email != nil {
		t.Error("expected email to stay nil")
	}
}

func TestSortKey(t *testing.T) {
	early := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	r1 := Reservation{Timestamp: &early}
	r2 := Reservation{Timestamp: &late}
	if !(r2.SortKey() > r1.SortKey()) {
		t.Errorf("expected later timestamp to sort higher: %q vs %q", r2.SortKey(), r1.SortKey())
	}

	legacy := Reservation{Date: "2024-12-31", Time: "20:00"}
	if legacy.SortKey() != "2024-12-31 20:00" {
		t.Errorf("unexpected legacy key %q", legacy.SortKey())
	}
	if !(r1.SortKey() > legacy.SortKey()) {
		t.Error("expected a 2025 timestamp to sort above a 2024 legacy row")
	}
}

func TestCustomerEmail(t *testing.T) {
	blank := "   "
	addr := " guest@example.com "

	if (&Reservation{}).CustomerEmail() != "" {
		t.Error("expected empty address for nil email")
	}
	if (&Reservation{Email: &blank}).CustomerEmail() != "" {
		t.Error("expected blank email to be treated as absent")
	}
	if got := (&Reservation{Email: &addr}).CustomerEmail(); got != "guest@example.com" {
		t.Errorf("expected trimmed address, got %q", got)
	}
}
