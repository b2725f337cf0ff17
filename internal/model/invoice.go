package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is the snapshot of one utility category on an invoice:
// consumption between the two bounding states, the unit price and VAT percent
// in force at capture time, and the resulting amounts. Applicable is false for
// utilities the property does not carry, which keeps "not billed" distinct
// from "billed at zero".
type InvoiceLine struct {
	Applicable  bool            `gorm:"not null;default:false" json:"applicable"`
	Consumption decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"consumption"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	VATPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"vat_percent"`
	Net         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"net"`
	VATAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"vat_amount"`
}

// Gross is the line total including VAT.
func (l InvoiceLine) Gross() decimal.Decimal {
	return l.Net.Add(l.VATAmount)
}

// Invoice is the computed bill for the period between a meter state and its
// immediate predecessor. Every price, VAT percent, consumption and amount is
// stored discretely at generation time; an invoice never re-reads its Rate,
// so later rate edits cannot rewrite issued bills. The unique MeterStateID
// index enforces at most one invoice per state.
type Invoice struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	InvoiceNo    string `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	RentID       uint   `gorm:"not null;index" json:"rent_id"`
	MeterStateID uint   `gorm:"not null;uniqueIndex" json:"meter_state_id"`

	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`

	ColdWater InvoiceLine `gorm:"embedded;embeddedPrefix:cold_water_" json:"cold_water"`
	HotWater  InvoiceLine `gorm:"embedded;embeddedPrefix:hot_water_" json:"hot_water"`
	Gas       InvoiceLine `gorm:"embedded;embeddedPrefix:gas_" json:"gas"`
	Energy    InvoiceLine `gorm:"embedded;embeddedPrefix:energy_" json:"energy"`
	Heat      InvoiceLine `gorm:"embedded;embeddedPrefix:heat_" json:"heat"`

	// Fixed monthly subscriptions, net + VAT, zero when not applicable.
	GasSubscriptionNet    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gas_subscription_net"`
	GasSubscriptionVAT    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gas_subscription_vat"`
	EnergySubscriptionNet decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"energy_subscription_net"`
	EnergySubscriptionVAT decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"energy_subscription_vat"`
	HeatSubscriptionNet   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"heat_subscription_net"`
	HeatSubscriptionVAT   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"heat_subscription_vat"`

	// Flat charges independent of any meter.
	LandlordRent    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"landlord_rent"`
	LandlordRentVAT decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"landlord_rent_vat"`
	HousingRent     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"housing_rent"`
	HousingRentVAT  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"housing_rent_vat"`
	RentVATPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"rent_vat_percent"`

	Total decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`

	IsDistributed bool       `gorm:"not null;default:false" json:"is_distributed"`
	DistributedAt *time.Time `json:"distributed_at"`

	// Optional rendered document attached after issuing.
	DocumentName string `gorm:"type:varchar(255)" json:"document_name,omitempty"`
	Document     []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line returns the snapshot line for a utility category.
func (i *Invoice) Line(c UtilityCategory) InvoiceLine {
	switch c {
	case UtilityColdWater:
		return i.ColdWater
	case UtilityHotWater:
		return i.HotWater
	case UtilityGas:
		return i.Gas
	case UtilityEnergy:
		return i.Energy
	case UtilityHeat:
		return i.Heat
	}
	return InvoiceLine{}
}
