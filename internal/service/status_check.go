package service

import (
	"context"
	"fmt"
	"time"

	"github.com/daralachab/reservation-api/internal/models"
	"github.com/daralachab/reservation-api/internal/store"
)

// statusCheckLimit caps the heartbeat listing.
const statusCheckLimit = 1000

type StatusCheckService struct {
	store store.StatusCheckStore
	now   func() time.Time
}

func NewStatusCheckService(s store.StatusCheckStore) *StatusCheckService {
	return &StatusCheckService{store: s, now: time.Now}
}

func (s *StatusCheckService) Create(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	c := models.NewStatusCheck(clientName, s.now())
	if err := s.store.InsertStatusCheck(ctx, &c); err != nil {
		return nil, fmt.Errorf("failed to save status check: %w", err)
	}
	return &c, nil
}

func (s *StatusCheckService) List(ctx context.Context) ([]models.StatusCheck, error) {
	checks, err := s.store.ListStatusChecks(ctx, statusCheckLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}
	return checks, nil
}
