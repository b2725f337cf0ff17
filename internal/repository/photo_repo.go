package repository

import (
	"context"

	"rentalhub/internal/model"

	"gorm.io/gorm"
)

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	FindByID(ctx context.Context, id uint) (*model.Photo, error)
	ListByState(ctx context.Context, stateID uint) ([]model.Photo, error)
	Delete(ctx context.Context, id uint) error
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	return GetDB(ctx, r.db).Create(photo).Error
}

func (r *photoRepository) FindByID(ctx context.Context, id uint) (*model.Photo, error) {
	var photo model.Photo
	if err := GetDB(ctx, r.db).First(&photo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) ListByState(ctx context.Context, stateID uint) ([]model.Photo, error) {
	var photos []model.Photo
	err := GetDB(ctx, r.db).Where("meter_state_id = ?", stateID).
		Order("category, id").Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Photo{}, id).Error
}
