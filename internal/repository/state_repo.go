package repository

import (
	"context"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

// MeterStateRepository is the persistence side of the append-only state
// ledger. Ordering is by Seq; the unique (rent_id, seq) index makes the
// append path safe under concurrent writers.
type MeterStateRepository interface {
	Create(ctx context.Context, state *model.MeterState) error
	FindByID(ctx context.Context, id uint) (*model.MeterState, error)
	// FindLatest returns the state with the highest Seq for the rent, or
	// gorm.ErrRecordNotFound for an empty ledger.
	FindLatest(ctx context.Context, rentID uint) (*model.MeterState, error)
	// FindBySeq returns the state of the rent at an exact ledger position.
	FindBySeq(ctx context.Context, rentID uint, seq int) (*model.MeterState, error)
	ListByRent(ctx context.Context, rentID uint, page, limit int) ([]model.MeterState, int64, error)
	HasInitial(ctx context.Context, rentID uint) (bool, error)
	SetConfirmed(ctx context.Context, id uint) error
}

type meterStateRepository struct {
	db *gorm.DB
}

func NewMeterStateRepository(db *gorm.DB) MeterStateRepository {
	return &meterStateRepository{db: db}
}

func (r *meterStateRepository) Create(ctx context.Context, state *model.MeterState) error {
	return GetDB(ctx, r.db).Create(state).Error
}

func (r *meterStateRepository) FindByID(ctx context.Context, id uint) (*model.MeterState, error) {
	var state model.MeterState
	if err := GetDB(ctx, r.db).First(&state, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *meterStateRepository) FindLatest(ctx context.Context, rentID uint) (*model.MeterState, error) {
	var state model.MeterState
	err := GetDB(ctx, r.db).Where("rent_id = ?", rentID).
		Order("seq DESC").First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *meterStateRepository) FindBySeq(ctx context.Context, rentID uint, seq int) (*model.MeterState, error) {
	var state model.MeterState
	err := GetDB(ctx, r.db).Where("rent_id = ? AND seq = ?", rentID, seq).First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *meterStateRepository) ListByRent(ctx context.Context, rentID uint, page, limit int) ([]model.MeterState, int64, error) {
	var states []model.MeterState
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.MeterState{}).Where("rent_id = ?", rentID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Where("rent_id = ?", rentID).Order("seq").
		Offset(offset).Limit(limit).Find(&states).Error
	if err != nil {
		return nil, 0, err
	}

	return states, total, nil
}

func (r *meterStateRepository) HasInitial(ctx context.Context, rentID uint) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.MeterState{}).
		Where("rent_id = ? AND is_initial = ?", rentID, true).Count(&count).Error
	return count > 0, err
}

func (r *meterStateRepository) SetConfirmed(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Model(&model.MeterState{}).Where("id = ?", id).
		Update("is_confirmed", true).Error
}
