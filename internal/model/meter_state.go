package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeterState is an immutable meter-reading snapshot in a rent's ledger.
// States are appended only, ordered by Seq (a per-rent counter starting at 1);
// Seq is the ordering authority even when two snapshots share a timestamp.
// The unique (rent_id, seq) index is what serializes concurrent appends: the
// loser of a race hits a duplicate key and surfaces as a conflict.
type MeterState struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RentID uint `gorm:"not null;uniqueIndex:idx_rent_seq,priority:1" json:"rent_id"`
	Seq    int  `gorm:"not null;uniqueIndex:idx_rent_seq,priority:2" json:"seq"`

	// Cumulative register values. Cold water and energy are always read;
	// the rest only when the property carries the utility.
	ColdWater decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"cold_water"`
	Energy    decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"energy"`
	HotWater  decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"hot_water"`
	Gas       decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"gas"`
	Heat      decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"heat"`

	IsInitial   bool      `gorm:"not null;default:false" json:"is_initial"`
	IsConfirmed bool      `gorm:"not null;default:false" json:"is_confirmed"`
	RecordedAt  time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Register returns the cumulative value for a category and whether the
// category was read on this state.
func (s *MeterState) Register(c UtilityCategory) (decimal.Decimal, bool) {
	switch c {
	case UtilityColdWater:
		return s.ColdWater, true
	case UtilityEnergy:
		return s.Energy, true
	case UtilityHotWater:
		return s.HotWater.Decimal, s.HotWater.Valid
	case UtilityGas:
		return s.Gas.Decimal, s.Gas.Valid
	case UtilityHeat:
		return s.Heat.Decimal, s.Heat.Valid
	}
	return decimal.Zero, false
}
