package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/daralachab/reservation-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps records in a relational database through gorm.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Migrate() error {
	return s.db.AutoMigrate(&models.Reservation{}, &models.StatusCheck{})
}

func (s *SQLStore) Insert(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *SQLStore) FindAll(ctx context.Context, filter Filter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if filter.Status != "" {
		if filter.Status == models.StatusPending {
			q = q.Where(s.db.Where("status = ?", filter.Status).Or("status = ?", "").Or("status IS NULL"))
		} else {
			q = q.Where("status = ?", filter.Status)
		}
	}
	// date and timestamp are type names in postgres; let the dialect quote them
	if filter.DateFrom != "" {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "date"}, Value: filter.DateFrom})
	}
	if filter.DateTo != "" {
		q = q.Where(clause.Lte{Column: clause.Column{Name: "date"}, Value: filter.DateTo})
	}

	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *SQLStore) UpdateFields(ctx context.Context, id string, fields Fields) (*models.Reservation, error) {
	var updated models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !fields.empty() {
			set := map[string]any{}
			if fields.Status != nil {
				set["status"] = *fields.Status
			}
			if fields.Persons != nil {
				set["persons"] = *fields.Persons
			}
			res := tx.Model(&models.Reservation{}).Where("id = ?", id).Updates(set)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return first(tx, id, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *SQLStore) FindOne(ctx context.Context, id string) (*models.Reservation, error) {
	var r models.Reservation
	if err := first(s.db.WithContext(ctx), id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) DeleteOne(ctx context.Context, id string) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reservation{})
	return res.RowsAffected, res.Error
}

func (s *SQLStore) InsertStatusCheck(ctx context.Context, c *models.StatusCheck) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *SQLStore) ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error) {
	var checks []models.StatusCheck
	q := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func first(tx *gorm.DB, id string, r *models.Reservation) error {
	err := tx.Where("id = ?", id).First(r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find reservation %s: %w", id, err)
	}
	return nil
}
