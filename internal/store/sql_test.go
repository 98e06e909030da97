package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daralachab/reservation-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	// every :memory: connection is its own database
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	s := NewSQLStore(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return s
}

func seed(t *testing.T, s *SQLStore, date string, status models.Status) models.Reservation {
	t.Helper()
	r := models.NewReservation(models.ReservationFields{
		Name: "Guest " + date, Phone: "0600000000", Date: date, Time: "20:00", Persons: 2, Status: status,
	}, time.Now())
	if err := s.Insert(context.Background(), &r); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return r
}

func TestSQLStore_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seed(t, s, "2025-03-10", "")

	got, err := s.FindOne(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.Name != r.Name || got.Status != models.StatusPending {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Timestamp == nil {
		t.Fatal("expected timestamp to round-trip")
	}

	t.Run("UpdateStatus", func(t *testing.T) {
		st := models.StatusConfirmed
		updated, err := s.UpdateFields(ctx, r.ID, Fields{Status: &st})
		if err != nil {
			t.Fatalf("UpdateFields failed: %v", err)
		}
		if updated.Status != models.StatusConfirmed {
			t.Errorf("expected confirmed, got %q", updated.Status)
		}
		if updated.Persons != r.Persons || updated.Name != r.Name {
			t.Errorf("expected other fields untouched, got %+v", updated)
		}
	})

	t.Run("UpdatePersons", func(t *testing.T) {
		n := 7
		updated, err := s.UpdateFields(ctx, r.ID, Fields{Persons: &n})
		if err != nil {
			t.Fatalf("UpdateFields failed: %v", err)
		}
		if updated.Persons != 7 || updated.Status != models.StatusConfirmed {
			t.Errorf("unexpected record after persons update: %+v", updated)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		n := 1
		_, err := s.UpdateFields(ctx, "does-not-exist", Fields{Persons: &n})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		n, err := s.DeleteOne(ctx, r.ID)
		if err != nil || n != 1 {
			t.Fatalf("expected 1 deletion, got %d (%v)", n, err)
		}
		n, err = s.DeleteOne(ctx, r.ID)
		if err != nil || n != 0 {
			t.Fatalf("expected 0 deletions on second delete, got %d (%v)", n, err)
		}
		if _, err := s.FindOne(ctx, r.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestSQLStore_FindAllFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed(t, s, "2025-03-09", models.StatusArrived)
	seed(t, s, "2025-03-10", models.StatusConfirmed)
	seed(t, s, "2025-03-11", models.StatusPending)

	legacy := models.Reservation{ID: "legacy-1", Name: "Old", Phone: "0", Date: "2025-03-12", Time: "19:00", Persons: 3}
	if err := s.db.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to insert legacy row: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"Arrived", Filter{Status: models.StatusArrived}, 1},
		{"PendingIncludesLegacy", Filter{Status: models.StatusPending}, 2},
		{"DateFrom", Filter{DateFrom: "2025-03-11"}, 2},
		{"DateRange", Filter{DateFrom: "2025-03-10", DateTo: "2025-03-11"}, 2},
		{"PendingAndDate", Filter{Status: models.StatusPending, DateTo: "2025-03-11"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindAll(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FindAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d reservations, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSQLStore_StatusChecks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i, name := range []string{"web", "mobile", "cron"} {
		c := models.NewStatusCheck(name, base.Add(time.Duration(i)*time.Second))
		if err := s.InsertStatusCheck(ctx, &c); err != nil {
			t.Fatalf("InsertStatusCheck failed: %v", err)
		}
	}

	checks, err := s.ListStatusChecks(ctx, 2)
	if err != nil {
		t.Fatalf("ListStatusChecks failed: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(checks))
	}
	if checks[0].ClientName != "web" {
		t.Errorf("expected oldest first, got %q", checks[0].ClientName)
	}
}
