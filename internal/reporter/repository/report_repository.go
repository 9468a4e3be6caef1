package repository

import (
	"context"

	"golang-econ-reporter/internal/entity"

	"gorm.io/gorm"
)

// ReportRepository defines persistence for generated reports.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id uint) (*entity.Report, error)
	FindBySubscriberID(ctx context.Context, subscriberID uint, limit int) ([]entity.Report, error)
}

// NewReportRepository creates a new GORM-based report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

type reportRepository struct {
	db *gorm.DB
}

// Create inserts the report inside a single transaction so the record is
// either fully visible or not at all.
func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(report).Error
	})
}

// FindByID retrieves a report by its ID.
func (r *reportRepository) FindByID(ctx context.Context, id uint) (*entity.Report, error) {
	var report entity.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindBySubscriberID retrieves the most recent reports for a subscriber.
func (r *reportRepository) FindBySubscriberID(ctx context.Context, subscriberID uint, limit int) ([]entity.Report, error) {
	var reports []entity.Report
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
