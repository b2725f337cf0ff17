package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoice(t *testing.T) {
	db := setupTestDB(t)
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

	res, err := invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, rent.ID, res.RentID)
	assert.Equal(t, second.ID, res.MeterStateID)
	assert.Contains(t, res.InvoiceNo, "RINV-")

	cold := res.Lines[string(model.UtilityColdWater)]
	assert.Equal(t, "10.0000", cold.Consumption)
	assert.Equal(t, "100.00", cold.Net)
	assert.Equal(t, "23.00", cold.VATAmount)
	assert.Equal(t, "123.00", cold.Gross)

	energy := res.Lines[string(model.UtilityEnergy)]
	assert.Equal(t, "0.0000", energy.Consumption)
	assert.Equal(t, "0.00", energy.Net)

	// Gas was never metered, so no line exists for it.
	_, ok := res.Lines[string(model.UtilityGas)]
	assert.False(t, ok)

	assert.Equal(t, "1200.00", res.LandlordRent)
	assert.Equal(t, "96.00", res.LandlordRentVAT)
	assert.Equal(t, "350.00", res.HousingRent)
	assert.Equal(t, "28.00", res.HousingRentVAT)
	assert.Equal(t, "1797.00", res.Total)
	assert.False(t, res.IsDistributed)
}

func TestGenerateInvoiceRejectsInitialState(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	initial := recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	_, err := invoiceSvc.GenerateInvoice(context.Background(), initial.ID, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestGenerateInvoiceRejectsRebilling(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5100",
		RecordedAt: "2024-02-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	_, err = invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	_, err = invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestGenerateInvoiceUsesRateAtCaptureTime(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)

	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})
	rent := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	// Cold water costs 10 until June, 20 from July onward.
	juneEnd := utcDate(2024, time.June, 30)
	seedRate(t, db, property.ID, utcDate(2024, time.January, 1), &juneEnd)
	newer := seedRate(t, db, property.ID, utcDate(2024, time.July, 1), nil)
	newer.ColdWaterPrice = mustDec("20")
	require.NoError(t, db.Save(newer).Error)

	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.May, 1))
	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5000",
		RecordedAt: "2024-06-15T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	res, err := invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	// June reading bills at the June price even though a newer rate exists.
	cold := res.Lines[string(model.UtilityColdWater)]
	assert.Equal(t, "10.0000", cold.UnitPrice)
	assert.Equal(t, "100.00", cold.Net)
}

func TestGenerateInvoiceOnRateBoundaryDay(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)

	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})
	rent := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	juneEnd := utcDate(2024, time.June, 30)
	seedRate(t, db, property.ID, utcDate(2024, time.January, 1), &juneEnd)
	newer := seedRate(t, db, property.ID, utcDate(2024, time.July, 1), nil)
	newer.ColdWaterPrice = mustDec("20")
	require.NoError(t, db.Save(newer).Error)

	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.June, 1))

	// Captured at noon on the closed range's last day: still the old rate.
	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5000",
		RecordedAt: "2024-06-30T12:00:00Z",
	}, nil)
	require.NoError(t, err)

	res, err := invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	cold := res.Lines[string(model.UtilityColdWater)]
	assert.Equal(t, "10.0000", cold.UnitPrice)
}

func TestGenerateInvoiceWithoutRate(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)

	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})
	rent := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))
	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5000",
		RecordedAt: "2024-02-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	_, err = invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestDistributeInvoiceIdempotent(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5100",
		RecordedAt: "2024-02-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	invoice, err := invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	first, err := invoiceSvc.DistributeInvoice(context.Background(), invoice.ID, nil)
	require.NoError(t, err)
	assert.True(t, first.IsDistributed)
	require.NotNil(t, first.DistributedAt)

	again, err := invoiceSvc.DistributeInvoice(context.Background(), invoice.ID, nil)
	require.NoError(t, err)
	assert.True(t, again.IsDistributed)
	assert.Equal(t, *first.DistributedAt, *again.DistributedAt)
}

func TestInvoiceDocumentRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	second, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "110",
		Energy:     "5100",
		RecordedAt: "2024-02-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	invoice, err := invoiceSvc.GenerateInvoice(context.Background(), second.ID, nil)
	require.NoError(t, err)

	_, _, err = invoiceSvc.GetDocument(context.Background(), invoice.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	content := []byte("%PDF-1.4 fake")
	_, err = invoiceSvc.AttachDocument(context.Background(), invoice.ID, "invoice.pdf", content)
	require.NoError(t, err)

	name, data, err := invoiceSvc.GetDocument(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice.pdf", name)
	assert.Equal(t, content, data)
}

func TestListInvoicesFiltered(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	invoiceSvc := newTestInvoiceService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	var last InvoiceResponse
	for i := 1; i <= 2; i++ {
		state, err := stateSvc.RecordState(context.Background(), RecordStateRequest{
			RentID:     rent.ID,
			ColdWater:  fmt.Sprintf("%d", 100+i*10),
			Energy:     "5100",
			RecordedAt: utcDate(2024, time.Month(i+1), 1).Format(time.RFC3339),
		}, nil)
		require.NoError(t, err)
		last, err = invoiceSvc.GenerateInvoice(context.Background(), state.ID, nil)
		require.NoError(t, err)
	}

	all, total, err := invoiceSvc.ListInvoices(context.Background(), repository.InvoiceListFilter{RentID: rent.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	_, err = invoiceSvc.DistributeInvoice(context.Background(), last.ID, nil)
	require.NoError(t, err)

	distributed := true
	sent, total, err := invoiceSvc.ListInvoices(context.Background(), repository.InvoiceListFilter{RentID: rent.ID, IsDistributed: &distributed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sent, 1)
	assert.Equal(t, last.ID, sent[0].ID)
}
