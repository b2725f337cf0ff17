package repository

import (
	"context"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

// PropertyListFilter narrows property listings.
type PropertyListFilter struct {
	LandlordID     uint // 0 = all landlords
	IncludeDeleted bool
	Page           int
	Limit          int
}

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Update(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uint) (*model.Property, error)
	// FindByIDAny also returns soft-deleted properties; the undelete path
	// needs to see them.
	FindByIDAny(ctx context.Context, id uint) (*model.Property, error)
	List(ctx context.Context, filter PropertyListFilter) ([]model.Property, int64, error)
	// SoftDelete / Restore flip the visibility flag of a property and its
	// own address row in one statement each; the service wraps the pair in
	// a transaction.
	SoftDelete(ctx context.Context, property *model.Property) error
	Restore(ctx context.Context, property *model.Property) error
	CountVisibleByLandlord(ctx context.Context, landlordID uint) (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return GetDB(ctx, r.db).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return GetDB(ctx, r.db).Save(property).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	if err := GetDB(ctx, r.db).Preload("Address").First(&property, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindByIDAny(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	err := GetDB(ctx, r.db).Unscoped().
		Preload("Address", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&property, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyListFilter) ([]model.Property, int64, error) {
	var properties []model.Property
	var total int64

	db := GetDB(ctx, r.db)
	if filter.IncludeDeleted {
		db = db.Unscoped()
	}

	query := db.Model(&model.Property{})
	if filter.LandlordID != 0 {
		query = query.Where("landlord_id = ?", filter.LandlordID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := db.Preload("Address", func(pdb *gorm.DB) *gorm.DB {
		if filter.IncludeDeleted {
			return pdb.Unscoped()
		}
		return pdb
	})
	if filter.LandlordID != 0 {
		fetch = fetch.Where("landlord_id = ?", filter.LandlordID)
	}
	if err := fetch.Order("id").Offset(offset).Limit(filter.Limit).Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

func (r *propertyRepository) SoftDelete(ctx context.Context, property *model.Property) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.Property{}, property.ID).Error; err != nil {
		return err
	}
	return db.Delete(&model.Address{}, property.AddressID).Error
}

func (r *propertyRepository) Restore(ctx context.Context, property *model.Property) error {
	db := GetDB(ctx, r.db)
	err := db.Unscoped().Model(&model.Property{}).Where("id = ?", property.ID).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	return db.Unscoped().Model(&model.Address{}).Where("id = ?", property.AddressID).
		Update("deleted_at", nil).Error
}

func (r *propertyRepository) CountVisibleByLandlord(ctx context.Context, landlordID uint) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Property{}).
		Where("landlord_id = ?", landlordID).Count(&count).Error
	return count, err
}
