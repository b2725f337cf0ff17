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
	"gorm.io/gorm"
)

func TestRecordStateInitial(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})

	res, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "100.5",
		Energy:     "5000",
		IsInitial:  true,
		RecordedAt: "2024-01-01T10:00:00Z",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Seq)
	assert.True(t, res.IsInitial)
	assert.False(t, res.IsConfirmed)
	assert.Equal(t, "100.5000", res.ColdWater)
	assert.Equal(t, "5000.0000", res.Energy)
	assert.Nil(t, res.Gas)
}

func TestRecordStateRequiresInitialFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})

	_, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "100",
		Energy:    "5000",
	}, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordStateDuplicateInitial(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	_, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "100",
		Energy:    "5000",
		IsInitial: true,
	}, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordStateSequenceIncrements(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	second, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "110",
		Energy:    "5200",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Seq)

	third, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "118",
		Energy:    "5350",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Seq)
}

func TestRecordStateRejectsDecreasingRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	_, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "99", // initial was 100
		Energy:    "5200",
	}, nil)
	assert.True(t, apperr.IsValidation(err))

	// Equal registers are fine: zero consumption is legal.
	res, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "100",
		Energy:    "5000",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Seq)
}

func TestRecordStateReadingsMustMatchUtilities(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)

	// No optional utilities, but a gas reading was submitted.
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	_, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "100",
		Energy:    "5000",
		Gas:       "42",
		IsInitial: true,
	}, nil)
	assert.True(t, apperr.IsValidation(err))

	// Hot water is metered, but its reading is missing.
	landlord := seedLandlord(t, db, "owner2@example.com")
	tenant := seedTenant(t, db, "renter2@example.com")
	property := seedProperty(t, db, landlord.ID, model.UtilityFlags{HasHotWater: true})
	rent2 := seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))

	_, err = svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent2.ID,
		ColdWater: "100",
		Energy:    "5000",
		IsInitial: true,
	}, nil)
	assert.True(t, apperr.IsValidation(err))
}

// A rival append landing between the latest-seq read and the insert claims
// the same (rent_id, seq) slot; the loser must surface a conflict so the
// caller can retry. The rival is injected through a one-shot create callback
// firing just before the service's own insert.
func TestRecordStateAppendRaceConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_append", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.MeterState); !ok {
			return
		}
		raced = true
		rival := &model.MeterState{
			RentID:     rent.ID,
			Seq:        2,
			ColdWater:  mustDec("105"),
			Energy:     mustDec("5050"),
			RecordedAt: utcDate(2024, time.February, 1),
		}
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(rival).Error)
	})
	require.NoError(t, err)

	_, err = svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "110",
		Energy:    "5100",
	}, nil)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.True(t, raced)
}

func TestRecordStateUnknownRent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)

	_, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    999,
		ColdWater: "100",
		Energy:    "5000",
		IsInitial: true,
	}, nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestConfirmStateIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	initial := recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	confirmed, err := svc.ConfirmState(context.Background(), initial.ID, nil)
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)

	again, err := svc.ConfirmState(context.Background(), initial.ID, nil)
	require.NoError(t, err)
	assert.True(t, again.IsConfirmed)
}

func TestPreviousState(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	initial := recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	second, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:    rent.ID,
		ColdWater: "110",
		Energy:    "5200",
	}, nil)
	require.NoError(t, err)

	prev, err := svc.PreviousState(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, initial.ID, prev.ID)
	assert.Equal(t, 1, prev.Seq)

	// The initial state has no predecessor.
	_, err = svc.PreviousState(context.Background(), initial.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListStatesPaginated(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestStateService(db)
	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, svc, rent.ID, utcDate(2024, time.January, 1))

	for i := 1; i <= 3; i++ {
		_, err := svc.RecordState(context.Background(), RecordStateRequest{
			RentID:    rent.ID,
			ColdWater: "200",
			Energy:    "6000",
		}, nil)
		require.NoError(t, err)
	}

	states, total, err := svc.ListStates(context.Background(), rent.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, states, 2)
}
