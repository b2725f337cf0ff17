package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentalhub/internal/model"
	"rentalhub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRateRequest(propertyID uint) CreateRateRequest {
	return CreateRateRequest{
		PropertyID:     propertyID,
		ColdWaterPrice: "10",
		EnergyPrice:    "0.75",
		WaterVAT:       "23",
		EnergyVAT:      "23",
		RentVAT:        "8",
		LandlordRent:   "1200",
		HousingRent:    "350",
		EffectiveFrom:  "2024-01-01",
	}
}

func TestCreateRate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	res, err := svc.CreateRate(context.Background(), baseRateRequest(property.ID), nil)
	require.NoError(t, err)

	assert.Equal(t, property.ID, res.PropertyID)
	assert.Equal(t, "10.0000", res.ColdWaterPrice)
	assert.Equal(t, "23.00", res.WaterVAT)
	assert.Equal(t, "2024-01-01", res.EffectiveFrom)
	assert.Nil(t, res.EffectiveTo)
	assert.Nil(t, res.GasPrice)
}

func TestCreateRateUnknownProperty(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)

	_, err := svc.CreateRate(context.Background(), baseRateRequest(999), nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateRatePricesMustMatchUtilities(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")

	// Pricing gas on a property that does not meter it.
	plain := seedProperty(t, db, landlord.ID, model.UtilityFlags{})
	req := baseRateRequest(plain.ID)
	req.GasPrice = "2.50"
	_, err := svc.CreateRate(context.Background(), req, nil)
	assert.True(t, apperr.IsValidation(err))

	// A gas property without a gas price.
	gassy := seedProperty(t, db, landlord.ID, model.UtilityFlags{HasGas: true})
	_, err = svc.CreateRate(context.Background(), baseRateRequest(gassy.ID), nil)
	assert.True(t, apperr.IsValidation(err))

	// Both supplied works; zero stays a legal price.
	req = baseRateRequest(gassy.ID)
	req.GasPrice = "0"
	req.GasVAT = "23"
	req.GasSubscription = "15"
	_, err = svc.CreateRate(context.Background(), req, nil)
	require.NoError(t, err)
}

func TestCreateRateRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	first := baseRateRequest(property.ID)
	first.EffectiveTo = "2024-06-30"
	_, err := svc.CreateRate(context.Background(), first, nil)
	require.NoError(t, err)

	// Overlapping by a single day is refused.
	overlapping := baseRateRequest(property.ID)
	overlapping.EffectiveFrom = "2024-06-30"
	_, err = svc.CreateRate(context.Background(), overlapping, nil)
	assert.True(t, apperr.IsValidation(err))

	// Starting the day after the previous range ends is fine.
	adjacent := baseRateRequest(property.ID)
	adjacent.EffectiveFrom = "2024-07-01"
	_, err = svc.CreateRate(context.Background(), adjacent, nil)
	require.NoError(t, err)
}

func TestCreateRateInvertedRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	req := baseRateRequest(property.ID)
	req.EffectiveFrom = "2024-06-01"
	req.EffectiveTo = "2024-01-01"
	_, err := svc.CreateRate(context.Background(), req, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateRateExcludesItselfFromOverlap(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	created, err := svc.CreateRate(context.Background(), baseRateRequest(property.ID), nil)
	require.NoError(t, err)

	// Re-saving the same effective range must not collide with itself.
	req := baseRateRequest(property.ID)
	req.ColdWaterPrice = "12.5"
	updated, err := svc.UpdateRate(context.Background(), created.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "12.5000", updated.ColdWaterPrice)
}

func TestGetActiveRate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	juneEnd := utcDate(2024, time.June, 30)
	seedRate(t, db, property.ID, utcDate(2024, time.January, 1), &juneEnd)
	newer := seedRate(t, db, property.ID, utcDate(2024, time.July, 1), nil)

	old, err := svc.GetActiveRate(context.Background(), property.ID, utcDate(2024, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", old.EffectiveFrom)

	// The closed range still covers its last day.
	edge, err := svc.GetActiveRate(context.Background(), property.ID, utcDate(2024, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, old.ID, edge.ID)

	current, err := svc.GetActiveRate(context.Background(), property.ID, utcDate(2025, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, newer.ID, current.ID)

	_, err = svc.GetActiveRate(context.Background(), property.ID, utcDate(2023, time.December, 31))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteRate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRateService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	created, err := svc.CreateRate(context.Background(), baseRateRequest(property.ID), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRate(context.Background(), created.ID, nil))

	_, err = svc.GetRate(context.Background(), created.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = svc.DeleteRate(context.Background(), created.ID, nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
