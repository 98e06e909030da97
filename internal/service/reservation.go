// Package service holds the reservation use cases. It keeps no state between
// calls; every operation re-reads what it needs from the store.
package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/daralachab/reservation-api/internal/events"
	"github.com/daralachab/reservation-api/internal/models"
	"github.com/daralachab/reservation-api/internal/store"
	"go.uber.org/zap"
)

var ErrInvalidStatus = errors.New("invalid reservation status")

// Dispatcher delivers new-reservation notifications. It never fails.
type Dispatcher interface {
	Dispatch(ctx context.Context, r models.Reservation)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.ReservationEvent) error
}

type ReservationService struct {
	store  store.ReservationStore
	notify Dispatcher
	events EventPublisher
	strict bool
	log    *zap.Logger
	now    func() time.Time
}

// NewReservationService wires the service. notify and pub may be nil.
// With strict set, unknown status values are rejected instead of stored.
func NewReservationService(s store.ReservationStore, notify Dispatcher, pub EventPublisher, strict bool, log *zap.Logger) *ReservationService {
	return &ReservationService{
		store:  s,
		notify: notify,
		events: pub,
		strict: strict,
		log:    log.Named("reservations"),
		now:    time.Now,
	}
}

// NormalizeStatus maps raw onto a known status. Unknown values are an error
// in strict mode and pass through verbatim otherwise.
func (s *ReservationService) NormalizeStatus(raw string) (models.Status, error) {
	if st, ok := models.ParseStatus(raw); ok {
		return st, nil
	}
	if s.strict {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return models.Status(raw), nil
}

// Create stores a new reservation and then notifies staff. Notification
// outcomes never change the result.
func (s *ReservationService) Create(ctx context.Context, f models.ReservationFields) (*models.Reservation, error) {
	if strings.TrimSpace(string(f.Status)) == "" {
		f.Status = models.StatusPending
	} else {
		st, err := s.NormalizeStatus(string(f.Status))
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	r := models.NewReservation(f, s.now())
	if err := s.store.Insert(ctx, &r); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	s.log.Info("new reservation",
		zap.String("id", r.ID),
		zap.String("name", r.Name),
		zap.String("phone", r.Phone),
		zap.String("date", r.Date),
		zap.String("time", r.Time),
	)

	if s.notify != nil {
		s.notify.Dispatch(ctx, r)
	}
	s.publish(ctx, events.ReservationCreated, r)

	return &r, nil
}

// List returns reservations newest first, with missing statuses read as pending.
func (s *ReservationService) List(ctx context.Context, filter store.Filter) ([]models.Reservation, error) {
	reservations, err := s.store.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	for i := range reservations {
		reservations[i].Backfill()
	}
	slices.SortStableFunc(reservations, func(a, b models.Reservation) int {
		return cmp.Compare(b.SortKey(), a.SortKey())
	})
	return reservations, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := s.store.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Backfill()
	return r, nil
}

// UpdateStatus sets the status with last-write-wins semantics. Any transition
// is allowed, including backwards.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, raw string) (*models.Reservation, error) {
	st, err := s.NormalizeStatus(raw)
	if err != nil {
		return nil, err
	}

	r, err := s.store.UpdateFields(ctx, id, store.Fields{Status: &st})
	if err != nil {
		return nil, err
	}
	r.Backfill()

	s.log.Info("reservation status updated", zap.String("id", id), zap.String("status", string(r.Status)))
	s.publish(ctx, events.ReservationStatusChanged, *r)
	return r, nil
}

// UpdatePersons sets the party size. The count is not validated.
func (s *ReservationService) UpdatePersons(ctx context.Context, id string, persons int) (*models.Reservation, error) {
	r, err := s.store.UpdateFields(ctx, id, store.Fields{Persons: &persons})
	if err != nil {
		return nil, err
	}
	r.Backfill()

	s.log.Info("reservation persons updated", zap.String("id", id), zap.Int("persons", persons))
	s.publish(ctx, events.ReservationPersonsChanged, *r)
	return r, nil
}

func (s *ReservationService) Delete(ctx context.Context, id string) error {
	n, err := s.store.DeleteOne(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.log.Info("reservation deleted", zap.String("id", id))
	s.publish(ctx, events.ReservationDeleted, models.Reservation{ID: id})
	return nil
}

// Arrived returns the guests who showed up between from and to (inclusive,
// either may be empty), oldest first.
func (s *ReservationService) Arrived(ctx context.Context, from, to string) ([]models.Reservation, error) {
	reservations, err := s.store.FindAll(ctx, store.Filter{Status: models.StatusArrived, DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list arrived reservations: %w", err)
	}
	slices.SortStableFunc(reservations, func(a, b models.Reservation) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	return reservations, nil
}

func (s *ReservationService) publish(ctx context.Context, t events.Type, r models.Reservation) {
	if s.events == nil {
		return
	}
	// the publisher logs its own failures
	_ = s.events.Publish(ctx, events.NewReservationEvent(t, r, s.now()))
}
