package repository

import (
	"context"
	"time"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

type RateRepository interface {
	Create(ctx context.Context, rate *model.Rate) error
	Update(ctx context.Context, rate *model.Rate) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Rate, error)
	ListByProperty(ctx context.Context, propertyID uint) ([]model.Rate, error)
	// FindActiveAt returns the rate in force for the property on the given
	// date: effective_from <= date and effective_to null or >= date.
	FindActiveAt(ctx context.Context, propertyID uint, date time.Time) (*model.Rate, error)
	// CountOverlapping counts rates of the property whose effective range
	// overlaps [from, to] (to == nil meaning open-ended), excluding excludeID
	// when non-zero. Used to keep at most one rate in force per date.
	CountOverlapping(ctx context.Context, propertyID uint, from time.Time, to *time.Time, excludeID uint) (int64, error)
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, rate *model.Rate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *rateRepository) Update(ctx context.Context, rate *model.Rate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *rateRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Rate{}, id).Error
}

func (r *rateRepository) FindByID(ctx context.Context, id uint) (*model.Rate, error) {
	var rate model.Rate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) ListByProperty(ctx context.Context, propertyID uint) ([]model.Rate, error) {
	var rates []model.Rate
	err := GetDB(ctx, r.db).Where("property_id = ?", propertyID).
		Order("effective_from DESC").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *rateRepository) FindActiveAt(ctx context.Context, propertyID uint, date time.Time) (*model.Rate, error) {
	var rate model.Rate
	err := GetDB(ctx, r.db).
		Where("property_id = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			propertyID, date, date).
		Order("effective_from DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) CountOverlapping(ctx context.Context, propertyID uint, from time.Time, to *time.Time, excludeID uint) (int64, error) {
	upper := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if to != nil {
		upper = *to
	}

	query := GetDB(ctx, r.db).Model(&model.Rate{}).
		Where("property_id = ?", propertyID).
		Where("effective_from <= ?", upper).
		Where("(effective_to IS NULL OR effective_to >= ?)", from)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
