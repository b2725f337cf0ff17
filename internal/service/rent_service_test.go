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

func TestCreateRent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRentService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	res, err := svc.CreateRent(context.Background(), CreateRentRequest{
		PropertyID:   property.ID,
		TenantID:     tenant.ID,
		StartRent:    "2024-03-01",
		EndRent:      "2025-02-28",
		Deposit:      "2400",
		SendStateDay: 5,
		Purpose:      model.PurposeLive,
	}, nil)
	require.NoError(t, err)

	// The landlord comes from the property, never from the request.
	assert.Equal(t, landlord.ID, res.LandlordID)
	assert.Equal(t, "2024-03-01", res.StartRent)
	assert.Equal(t, "2025-02-28", res.EndRent)
	assert.Equal(t, model.PurposeLive, res.Purpose)
}

func TestCreateRentValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRentService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	base := CreateRentRequest{
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		StartRent:  "2024-03-01",
		EndRent:    "2025-02-28",
		Deposit:    "2400",
		Purpose:    model.PurposeLive,
	}

	req := base
	req.PropertyID = 999
	_, err := svc.CreateRent(context.Background(), req, nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	req = base
	req.TenantID = 999
	_, err = svc.CreateRent(context.Background(), req, nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	req = base
	req.EndRent = "2024-02-01"
	_, err = svc.CreateRent(context.Background(), req, nil)
	assert.True(t, apperr.IsValidation(err))

	req = base
	req.SendStateDay = 31
	_, err = svc.CreateRent(context.Background(), req, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestListRentsClassification(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRentService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	past := seedRent(t, db, property, tenant.ID, utcDate(2022, time.January, 1), utcDate(2022, time.December, 31))
	current := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	asOf := utcDate(2024, time.June, 1)

	ongoing, total, err := svc.ListRents(context.Background(), RentQuery{Classification: "ongoing", AsOf: asOf})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ongoing, 1)
	assert.Equal(t, current.ID, ongoing[0].ID)
	assert.True(t, ongoing[0].IsOngoing)

	finished, total, err := svc.ListRents(context.Background(), RentQuery{Classification: "finished", AsOf: asOf})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, finished, 1)
	assert.Equal(t, past.ID, finished[0].ID)

	// The same contract flips class when asOf moves past its end date.
	finished, total, err = svc.ListRents(context.Background(), RentQuery{Classification: "finished", AsOf: utcDate(2025, time.January, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.ListRents(context.Background(), RentQuery{Classification: "bogus", AsOf: asOf})
	assert.True(t, apperr.IsValidation(err))
}

func TestListRentsRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRentService(db)
	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{})

	seedRent(t, db, property, tenant.ID, utcDate(2022, time.January, 1), utcDate(2022, time.December, 31))
	overlapping := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	// Overlap counts, containment is not required.
	res, total, err := svc.ListRents(context.Background(), RentQuery{
		Classification: "range",
		From:           utcDate(2024, time.December, 1),
		To:             utcDate(2025, time.March, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, res, 1)
	assert.Equal(t, overlapping.ID, res[0].ID)

	_, _, err = svc.ListRents(context.Background(), RentQuery{
		Classification: "range",
		From:           utcDate(2025, time.March, 1),
		To:             utcDate(2024, time.December, 1),
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteRentKeepsHistory(t *testing.T) {
	db := setupTestDB(t)
	rentSvc := newTestRentService(db)
	stateSvc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	initial := recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	require.NoError(t, rentSvc.DeleteRent(context.Background(), rent.ID, nil))

	_, err := rentSvc.GetRent(context.Background(), rent.ID, utcDate(2024, time.June, 1))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// States survive the delete untouched.
	var state model.MeterState
	require.NoError(t, db.First(&state, initial.ID).Error)

	deleted, total, err := rentSvc.ListRents(context.Background(), RentQuery{
		AsOf:   utcDate(2024, time.June, 1),
		Filter: repository.RentListFilter{IncludeDeleted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, deleted, 1)
	assert.True(t, deleted[0].IsDeleted)

	require.NoError(t, rentSvc.UndeleteRent(context.Background(), rent.ID, nil))
	_, err = rentSvc.GetRent(context.Background(), rent.ID, utcDate(2024, time.June, 1))
	require.NoError(t, err)
}
