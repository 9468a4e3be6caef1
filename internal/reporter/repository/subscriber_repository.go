package repository

import (
	"context"

	"golang-econ-reporter/internal/entity"

	"gorm.io/gorm"
)

// SubscriberRepository defines read access to subscribers. Subscriber
// settings are written elsewhere; the pipeline never mutates them.
type SubscriberRepository interface {
	FindActive(ctx context.Context) ([]entity.Subscriber, error)
	FindActiveByFrequency(ctx context.Context, frequency entity.ReportFrequency) ([]entity.Subscriber, error)
}

// NewSubscriberRepository creates a new GORM-based subscriber repository.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

type subscriberRepository struct {
	db *gorm.DB
}

// FindActive retrieves all active subscribers.
func (r *subscriberRepository) FindActive(ctx context.Context) ([]entity.Subscriber, error) {
	var subscribers []entity.Subscriber
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// FindActiveByFrequency retrieves active subscribers with the given report frequency.
func (r *subscriberRepository) FindActiveByFrequency(ctx context.Context, frequency entity.ReportFrequency) ([]entity.Subscriber, error) {
	var subscribers []entity.Subscriber
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND report_frequency = ?", true, frequency).
		Order("id").
		Find(&subscribers).Error
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}
