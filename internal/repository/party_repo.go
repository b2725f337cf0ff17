package repository

import (
	"context"
	"strings"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

// Case-insensitive match that works on both postgres and the sqlite test
// driver (ILIKE is postgres-only).
const partySearchClause = "LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?"

func partySearchArgs(search string) []interface{} {
	pattern := "%" + strings.ToLower(search) + "%"
	return []interface{}{pattern, pattern, pattern}
}

type LandlordRepository interface {
	Create(ctx context.Context, landlord *model.Landlord) error
	Update(ctx context.Context, landlord *model.Landlord) error
	FindByID(ctx context.Context, id uint) (*model.Landlord, error)
	FindByIDAny(ctx context.Context, id uint) (*model.Landlord, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Landlord, int64, error)
	SoftDelete(ctx context.Context, landlord *model.Landlord) error
	Restore(ctx context.Context, landlord *model.Landlord) error
}

type landlordRepository struct {
	db *gorm.DB
}

func NewLandlordRepository(db *gorm.DB) LandlordRepository {
	return &landlordRepository{db: db}
}

func (r *landlordRepository) Create(ctx context.Context, landlord *model.Landlord) error {
	return GetDB(ctx, r.db).Create(landlord).Error
}

func (r *landlordRepository) Update(ctx context.Context, landlord *model.Landlord) error {
	return GetDB(ctx, r.db).Save(landlord).Error
}

func (r *landlordRepository) FindByID(ctx context.Context, id uint) (*model.Landlord, error) {
	var landlord model.Landlord
	if err := GetDB(ctx, r.db).Preload("Address").First(&landlord, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &landlord, nil
}

func (r *landlordRepository) FindByIDAny(ctx context.Context, id uint) (*model.Landlord, error) {
	var landlord model.Landlord
	err := GetDB(ctx, r.db).Unscoped().
		Preload("Address", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&landlord, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &landlord, nil
}

func (r *landlordRepository) List(ctx context.Context, search string, page, limit int) ([]model.Landlord, int64, error) {
	var landlords []model.Landlord
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Landlord{})
	if search != "" {
		query = query.Where(partySearchClause, partySearchArgs(search)...)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Address")
	if search != "" {
		fetch = fetch.Where(partySearchClause, partySearchArgs(search)...)
	}
	if err := fetch.Order("id").Offset(offset).Limit(limit).Find(&landlords).Error; err != nil {
		return nil, 0, err
	}

	return landlords, total, nil
}

func (r *landlordRepository) SoftDelete(ctx context.Context, landlord *model.Landlord) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.Landlord{}, landlord.ID).Error; err != nil {
		return err
	}
	return db.Delete(&model.Address{}, landlord.AddressID).Error
}

func (r *landlordRepository) Restore(ctx context.Context, landlord *model.Landlord) error {
	db := GetDB(ctx, r.db)
	err := db.Unscoped().Model(&model.Landlord{}).Where("id = ?", landlord.ID).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	return db.Unscoped().Model(&model.Address{}).Where("id = ?", landlord.AddressID).
		Update("deleted_at", nil).Error
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
	FindByIDAny(ctx context.Context, id uint) (*model.Tenant, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Tenant, int64, error)
	SoftDelete(ctx context.Context, tenant *model.Tenant) error
	Restore(ctx context.Context, tenant *model.Tenant) error
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Save(tenant).Error
}

func (r *tenantRepository) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).Preload("Address").First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindByIDAny(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	err := GetDB(ctx, r.db).Unscoped().
		Preload("Address", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context, search string, page, limit int) ([]model.Tenant, int64, error) {
	var tenants []model.Tenant
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Tenant{})
	if search != "" {
		query = query.Where(partySearchClause, partySearchArgs(search)...)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Address")
	if search != "" {
		fetch = fetch.Where(partySearchClause, partySearchArgs(search)...)
	}
	if err := fetch.Order("id").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

func (r *tenantRepository) SoftDelete(ctx context.Context, tenant *model.Tenant) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.Tenant{}, tenant.ID).Error; err != nil {
		return err
	}
	return db.Delete(&model.Address{}, tenant.AddressID).Error
}

func (r *tenantRepository) Restore(ctx context.Context, tenant *model.Tenant) error {
	db := GetDB(ctx, r.db)
	err := db.Unscoped().Model(&model.Tenant{}).Where("id = ?", tenant.ID).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	return db.Unscoped().Model(&model.Address{}).Where("id = ?", tenant.AddressID).
		Update("deleted_at", nil).Error
}
