package repository

import (
	"context"
	"time"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

// RentListFilter narrows rent listings. Zero ids mean "any"; the temporal
// fields are applied by the dedicated query methods.
type RentListFilter struct {
	PropertyID     uint
	TenantID       uint
	LandlordID     uint
	IncludeDeleted bool
	Page           int
	Limit          int
}

type RentRepository interface {
	Create(ctx context.Context, rent *model.Rent) error
	Update(ctx context.Context, rent *model.Rent) error
	FindByID(ctx context.Context, id uint) (*model.Rent, error)
	FindByIDAny(ctx context.Context, id uint) (*model.Rent, error)
	List(ctx context.Context, filter RentListFilter) ([]model.Rent, int64, error)
	// ListOngoing / ListFinished classify against the caller-supplied date,
	// EndRent day inclusive. ListOverlapping returns contracts touching
	// [from, to] at all.
	ListOngoing(ctx context.Context, asOf time.Time, filter RentListFilter) ([]model.Rent, int64, error)
	ListFinished(ctx context.Context, asOf time.Time, filter RentListFilter) ([]model.Rent, int64, error)
	ListOverlapping(ctx context.Context, from, to time.Time, filter RentListFilter) ([]model.Rent, int64, error)
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	CountOngoingByTenant(ctx context.Context, tenantID uint, asOf time.Time) (int64, error)
	CountOngoingByLandlord(ctx context.Context, landlordID uint, asOf time.Time) (int64, error)
}

type rentRepository struct {
	db *gorm.DB
}

func NewRentRepository(db *gorm.DB) RentRepository {
	return &rentRepository{db: db}
}

func (r *rentRepository) Create(ctx context.Context, rent *model.Rent) error {
	return GetDB(ctx, r.db).Create(rent).Error
}

func (r *rentRepository) Update(ctx context.Context, rent *model.Rent) error {
	return GetDB(ctx, r.db).Save(rent).Error
}

func (r *rentRepository) FindByID(ctx context.Context, id uint) (*model.Rent, error) {
	var rent model.Rent
	if err := GetDB(ctx, r.db).First(&rent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rent, nil
}

func (r *rentRepository) FindByIDAny(ctx context.Context, id uint) (*model.Rent, error) {
	var rent model.Rent
	if err := GetDB(ctx, r.db).Unscoped().First(&rent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rent, nil
}

func (r *rentRepository) applyFilter(db *gorm.DB, filter RentListFilter) *gorm.DB {
	if filter.PropertyID != 0 {
		db = db.Where("property_id = ?", filter.PropertyID)
	}
	if filter.TenantID != 0 {
		db = db.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.LandlordID != 0 {
		db = db.Where("landlord_id = ?", filter.LandlordID)
	}
	return db
}

func (r *rentRepository) list(ctx context.Context, filter RentListFilter, scope func(*gorm.DB) *gorm.DB) ([]model.Rent, int64, error) {
	var rents []model.Rent
	var total int64

	db := GetDB(ctx, r.db)
	if filter.IncludeDeleted {
		db = db.Unscoped()
	}

	query := scope(r.applyFilter(db.Model(&model.Rent{}), filter))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := scope(r.applyFilter(db, filter))
	if err := fetch.Order("start_rent DESC, id DESC").Offset(offset).Limit(filter.Limit).Find(&rents).Error; err != nil {
		return nil, 0, err
	}

	return rents, total, nil
}

func (r *rentRepository) List(ctx context.Context, filter RentListFilter) ([]model.Rent, int64, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *rentRepository) ListOngoing(ctx context.Context, asOf time.Time, filter RentListFilter) ([]model.Rent, int64, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("end_rent >= ?", asOf)
	})
}

func (r *rentRepository) ListFinished(ctx context.Context, asOf time.Time, filter RentListFilter) ([]model.Rent, int64, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("end_rent < ?", asOf)
	})
}

func (r *rentRepository) ListOverlapping(ctx context.Context, from, to time.Time, filter RentListFilter) ([]model.Rent, int64, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("start_rent <= ? AND end_rent >= ?", to, from)
	})
}

func (r *rentRepository) SoftDelete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Rent{}, id).Error
}

func (r *rentRepository) Restore(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Unscoped().Model(&model.Rent{}).Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *rentRepository) CountOngoingByTenant(ctx context.Context, tenantID uint, asOf time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Rent{}).
		Where("tenant_id = ? AND end_rent >= ?", tenantID, asOf).Count(&count).Error
	return count, err
}

func (r *rentRepository) CountOngoingByLandlord(ctx context.Context, landlordID uint, asOf time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Rent{}).
		Where("landlord_id = ? AND end_rent >= ?", landlordID, asOf).Count(&count).Error
	return count, err
}
