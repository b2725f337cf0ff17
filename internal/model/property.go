package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property is a physical rental unit. The Has* flags decide which optional
// utilities are metered and priced; cold water and energy are always present.
type Property struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	LandlordID  uint            `gorm:"not null;index" json:"landlord_id"`
	AddressID   uint            `gorm:"not null;index" json:"address_id"`
	Address     Address         `gorm:"foreignKey:AddressID" json:"address"`
	RoomCount   int             `gorm:"not null" json:"room_count"`
	Size        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"size"` // square meters
	HasGas      bool            `gorm:"not null;default:false" json:"has_gas"`
	HasHotWater bool            `gorm:"not null;default:false" json:"has_hot_water"`
	HasHeat     bool            `gorm:"not null;default:false" json:"has_heat"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// UtilityFlags captures which optional utilities the property carries, so the
// billing calculator never touches the ORM entity.
type UtilityFlags struct {
	HasGas      bool
	HasHotWater bool
	HasHeat     bool
}

// Flags extracts the utility availability of the property.
func (p *Property) Flags() UtilityFlags {
	return UtilityFlags{HasGas: p.HasGas, HasHotWater: p.HasHotWater, HasHeat: p.HasHeat}
}

// Has reports whether the given utility is metered on this property.
func (f UtilityFlags) Has(c UtilityCategory) bool {
	switch c {
	case UtilityColdWater, UtilityEnergy:
		return true
	case UtilityHotWater:
		return f.HasHotWater
	case UtilityGas:
		return f.HasGas
	case UtilityHeat:
		return f.HasHeat
	}
	return false
}
