package service

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOccupancy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(db)

	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})
	seedRent(t, db, property, tenant.ID, utcDate(2022, time.January, 1), utcDate(2022, time.December, 31))
	seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	stats, err := svc.GetOccupancy(context.Background(), utcDate(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Ongoing)
	assert.Equal(t, int64(1), stats.Finished)
	assert.Equal(t, int64(2), stats.Total)

	// On its last day the contract still counts as ongoing.
	stats, err = svc.GetOccupancy(context.Background(), utcDate(2024, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Ongoing)
}

func TestGetRevenue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(db)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))
	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5000",
		RecordedAt: "2024-02-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)
	_, err = invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	stats, err := svc.GetRevenue(context.Background(), utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))
	require.NoError(t, err)
	require.Len(t, stats.Properties, 1)
	assert.Equal(t, rent.PropertyID, stats.Properties[0].PropertyID)
	assert.Equal(t, int64(1), stats.Properties[0].InvoiceCount)
	assert.Equal(t, "1797", stats.Total.String())

	// A window before the invoice period is empty.
	empty, err := svc.GetRevenue(context.Background(), utcDate(2023, time.January, 1), utcDate(2023, time.December, 31))
	require.NoError(t, err)
	assert.Empty(t, empty.Properties)
	assert.True(t, empty.Total.IsZero())
}

func TestGetConsumption(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(db)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	readings := []struct {
		cold, energy, at string
	}{
		{"110", "5100", "2024-02-01T10:00:00Z"},
		{"118", "5250", "2024-03-01T10:00:00Z"},
	}
	for _, r := range readings {
		state, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
			RentID:     rent.ID,
			ColdWater:  r.cold,
			Energy:     r.energy,
			RecordedAt: r.at,
		}, nil)
		require.NoError(t, err)
		_, err = invoiceSvc.GenerateInvoice(context.Background(), state.ID, nil)
		require.NoError(t, err)
	}

	stats, err := svc.GetConsumption(context.Background(), rent.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))
	require.NoError(t, err)
	require.Len(t, stats.Categories, 2)

	byCategory := map[string]CategoryConsumption{}
	for _, c := range stats.Categories {
		byCategory[c.Category] = c
	}

	// 10 + 8 cold-water units, 100 + 150 energy units across the two bills.
	assert.Equal(t, "18", byCategory[string(model.UtilityColdWater)].Consumption.String())
	assert.Equal(t, "180", byCategory[string(model.UtilityColdWater)].Net.String())
	assert.Equal(t, "250", byCategory[string(model.UtilityEnergy)].Consumption.String())
	assert.Equal(t, "187.5", byCategory[string(model.UtilityEnergy)].Net.String())
}
