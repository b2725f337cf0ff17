package service

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Address{},
		&model.Landlord{},
		&model.Tenant{},
		&model.Property{},
		&model.Rate{},
		&model.Rent{},
		&model.MeterState{},
		&model.Invoice{},
		&model.Photo{},
		&model.AuditLog{},
	))
	return db
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testAddress() model.Address {
	return model.Address{
		Street:  "Polna",
		Number:  "12",
		City:    "Warsaw",
		ZipCode: "00-625",
		Country: "Poland",
	}
}

// --- Fixtures ---

func seedLandlord(t *testing.T, db *gorm.DB, email string) *model.Landlord {
	t.Helper()
	landlord := &model.Landlord{
		Name:    "Anna Kowalska",
		Email:   email,
		Phone:   "+48 600 100 200",
		Address: testAddress(),
	}
	require.NoError(t, db.Create(landlord).Error)
	return landlord
}

func seedTenant(t *testing.T, db *gorm.DB, email string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		Name:    "Piotr Nowak",
		Email:   email,
		Address: testAddress(),
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedProperty(t *testing.T, db *gorm.DB, landlordID uint, flags model.UtilityFlags) *model.Property {
	t.Helper()
	property := &model.Property{
		LandlordID:  landlordID,
		Address:     testAddress(),
		RoomCount:   2,
		Size:        mustDec("48.50"),
		HasGas:      flags.HasGas,
		HasHotWater: flags.HasHotWater,
		HasHeat:     flags.HasHeat,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func seedRent(t *testing.T, db *gorm.DB, property *model.Property, tenantID uint, start, end time.Time) *model.Rent {
	t.Helper()
	rent := &model.Rent{
		PropertyID:   property.ID,
		TenantID:     tenantID,
		LandlordID:   property.LandlordID,
		StartRent:    start,
		EndRent:      end,
		Deposit:      mustDec("2400"),
		SendStateDay: 1,
		Purpose:      model.PurposeLive,
	}
	require.NoError(t, db.Create(rent).Error)
	return rent
}

// seedRate installs a bare cold-water/energy price list; tests that need
// optional utilities build their own Rate.
func seedRate(t *testing.T, db *gorm.DB, propertyID uint, from time.Time, to *time.Time) *model.Rate {
	t.Helper()
	rate := &model.Rate{
		PropertyID:     propertyID,
		ColdWaterPrice: mustDec("10"),
		EnergyPrice:    mustDec("0.75"),
		WaterVAT:       mustDec("23"),
		EnergyVAT:      mustDec("23"),
		RentVAT:        mustDec("8"),
		LandlordRent:   mustDec("1200"),
		HousingRent:    mustDec("350"),
		EffectiveFrom:  from,
		EffectiveTo:    to,
	}
	require.NoError(t, db.Create(rate).Error)
	return rate
}

// seedFullTenancy wires a landlord, tenant, property, rent, and open-ended
// rate in one call; the rent runs through calendar year 2024.
func seedFullTenancy(t *testing.T, db *gorm.DB, flags model.UtilityFlags) *model.Rent {
	t.Helper()
	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	property := seedProperty(t, db, landlord.ID, flags)
	seedRate(t, db, property.ID, utcDate(2024, time.January, 1), nil)
	return seedRent(t, db, property, tenant.ID, utcDate(2024, time.January, 1), utcDate(2024, time.December, 31))
}

// --- Service wiring ---

func newTestStateService(db *gorm.DB) MeterStateService {
	return NewMeterStateService(
		repository.NewMeterStateRepository(db),
		repository.NewRentRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewTransactionManager(db),
		NewAuditRecorder(db),
		nil,
	)
}

func newTestInvoiceService(db *gorm.DB) InvoiceService {
	return NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewMeterStateRepository(db),
		repository.NewRentRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewRateRepository(db),
		repository.NewTransactionManager(db),
		NewAuditRecorder(db),
		nil,
	)
}

func newTestRateService(db *gorm.DB) RateService {
	return NewRateService(
		repository.NewRateRepository(db),
		repository.NewPropertyRepository(db),
		NewAuditRecorder(db),
	)
}

func newTestPropertyService(db *gorm.DB) PropertyService {
	return NewPropertyService(
		repository.NewPropertyRepository(db),
		repository.NewLandlordRepository(db),
		repository.NewTransactionManager(db),
		NewAuditRecorder(db),
	)
}

func newTestLandlordService(db *gorm.DB) LandlordService {
	return NewLandlordService(
		repository.NewLandlordRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewRentRepository(db),
		repository.NewTransactionManager(db),
		NewAuditRecorder(db),
	)
}

func newTestTenantService(db *gorm.DB) TenantService {
	return NewTenantService(
		repository.NewTenantRepository(db),
		repository.NewRentRepository(db),
		repository.NewTransactionManager(db),
		NewAuditRecorder(db),
	)
}

func newTestRentService(db *gorm.DB) RentService {
	return NewRentService(
		repository.NewRentRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewTenantRepository(db),
		NewAuditRecorder(db),
	)
}

// recordInitialState appends seq 1 through the service so later appends have
// a predecessor.
func recordInitialState(t *testing.T, svc MeterStateService, rentID uint, recordedAt time.Time) StateResponse {
	t.Helper()
	res, err := svc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rentID,
		ColdWater:  "100",
		Energy:     "5000",
		IsInitial:  true,
		RecordedAt: recordedAt.Format(time.RFC3339),
	}, nil)
	require.NoError(t, err)
	return res
}
