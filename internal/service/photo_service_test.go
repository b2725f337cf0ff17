package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPhoto(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	svc := NewPhotoService(repository.NewPhotoRepository(db), repository.NewMeterStateRepository(db))

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	state := recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	image := []byte{0xff, 0xd8, 0xff, 0xe0} // jpeg magic
	res, err := svc.UploadPhoto(context.Background(), UploadPhotoRequest{
		MeterStateID: state.ID,
		Category:     string(model.UtilityColdWater),
		FileName:     "cold-water.jpg",
		Image:        image,
	})
	require.NoError(t, err)

	assert.Equal(t, state.ID, res.MeterStateID)
	assert.Equal(t, string(model.UtilityColdWater), res.Category)
	assert.Equal(t, len(image), res.SizeBytes)

	name, data, err := svc.GetPhotoImage(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "cold-water.jpg", name)
	assert.Equal(t, image, data)
}

func TestUploadPhotoValidation(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	svc := NewPhotoService(repository.NewPhotoRepository(db), repository.NewMeterStateRepository(db))

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	state := recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	req := UploadPhotoRequest{
		MeterStateID: state.ID,
		Category:     "SOLAR",
		FileName:     "x.jpg",
		Image:        []byte{1},
	}
	_, err := svc.UploadPhoto(context.Background(), req)
	assert.True(t, apperr.IsValidation(err))

	req.Category = string(model.UtilityEnergy)
	req.Image = nil
	_, err = svc.UploadPhoto(context.Background(), req)
	assert.True(t, apperr.IsValidation(err))

	req.Image = []byte{1}
	req.MeterStateID = 999
	_, err = svc.UploadPhoto(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListAndDeletePhotos(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	svc := NewPhotoService(repository.NewPhotoRepository(db), repository.NewMeterStateRepository(db))

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	state := recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	for _, cat := range []model.UtilityCategory{model.UtilityColdWater, model.UtilityEnergy} {
		_, err := svc.UploadPhoto(context.Background(), UploadPhotoRequest{
			MeterStateID: state.ID,
			Category:     string(cat),
			FileName:     "reading.jpg",
			Image:        []byte{1, 2, 3},
		})
		require.NoError(t, err)
	}

	photos, err := svc.ListPhotosByState(context.Background(), state.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	require.NoError(t, svc.DeletePhoto(context.Background(), photos[0].ID))

	remaining, err := svc.ListPhotosByState(context.Background(), state.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	err = svc.DeletePhoto(context.Background(), photos[0].ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
