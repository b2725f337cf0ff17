package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the versioned price list of one property. At most one Rate is in
// force on any given date: effective ranges of a property's rates must not
// overlap, and "active at D" means effective_from <= D and effective_to is
// null or >= D. Invoices snapshot every price they use, so editing a Rate
// never rewrites history.
type Rate struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PropertyID uint `gorm:"not null;index" json:"property_id"`

	// Unit prices. Cold water and energy are always priced; the rest only
	// when the property carries the utility (null means not applicable,
	// which is distinct from a price of zero).
	ColdWaterPrice decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"cold_water_price"`
	EnergyPrice    decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"energy_price"`
	HotWaterPrice  decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"hot_water_price"`
	GasPrice       decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"gas_price"`
	HeatPrice      decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"heat_price"`

	// VAT percentages per category, e.g. 23 for 23%.
	WaterVAT  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"water_vat"`
	GasVAT    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gas_vat"`
	EnergyVAT decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"energy_vat"`
	HeatVAT   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"heat_vat"`
	RentVAT   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rent_vat"`

	// Fixed monthly subscriptions, charged once per invoice regardless of
	// consumption.
	GasSubscription    decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"gas_subscription"`
	EnergySubscription decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"energy_subscription"`
	HeatSubscription   decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"heat_subscription"`

	// Flat charges independent of any meter.
	LandlordRent decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"landlord_rent"`
	HousingRent  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"housing_rent"`

	EffectiveFrom time.Time  `gorm:"type:date;not null;index" json:"effective_from"`
	EffectiveTo   *time.Time `gorm:"type:date;index" json:"effective_to"` // null = open-ended

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitPrice returns the per-unit price for a category and whether the
// category is priced on this rate at all.
func (r *Rate) UnitPrice(c UtilityCategory) (decimal.Decimal, bool) {
	switch c {
	case UtilityColdWater:
		return r.ColdWaterPrice, true
	case UtilityEnergy:
		return r.EnergyPrice, true
	case UtilityHotWater:
		return r.HotWaterPrice.Decimal, r.HotWaterPrice.Valid
	case UtilityGas:
		return r.GasPrice.Decimal, r.GasPrice.Valid
	case UtilityHeat:
		return r.HeatPrice.Decimal, r.HeatPrice.Valid
	}
	return decimal.Zero, false
}

// VAT returns the VAT percentage applied to a category.
func (r *Rate) VAT(c UtilityCategory) decimal.Decimal {
	switch c {
	case UtilityColdWater, UtilityHotWater:
		return r.WaterVAT
	case UtilityGas:
		return r.GasVAT
	case UtilityEnergy:
		return r.EnergyVAT
	case UtilityHeat:
		return r.HeatVAT
	}
	return decimal.Zero
}
