// Package store persists reservations and heartbeat records. Each operation
// is atomic on a single record; nothing spans records.
package store

import (
	"context"
	"errors"

	"github.com/daralachab/reservation-api/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Filter narrows FindAll. The zero value matches everything. Dates compare as
// YYYY-MM-DD strings.
type Filter struct {
	Status   models.Status
	DateFrom string
	DateTo   string
}

// Fields is a partial update. Nil fields are left untouched.
type Fields struct {
	Status  *models.Status
	Persons *int
}

func (f Fields) empty() bool {
	return f.Status == nil && f.Persons == nil
}

type ReservationStore interface {
	Insert(ctx context.Context, r *models.Reservation) error
	FindAll(ctx context.Context, filter Filter) ([]models.Reservation, error)
	// UpdateFields applies the update and returns the record as stored after
	// it, or ErrNotFound when no record has that id.
	UpdateFields(ctx context.Context, id string, fields Fields) (*models.Reservation, error)
	FindOne(ctx context.Context, id string) (*models.Reservation, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
}

type StatusCheckStore interface {
	InsertStatusCheck(ctx context.Context, c *models.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error)
}

// Store is everything a backend provides.
type Store interface {
	ReservationStore
	StatusCheckStore
	Close(ctx context.Context) error
}
