package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentPurpose enum constants
const (
	PurposeLive  = "LIVE"
	PurposeWork  = "WORK"
	PurposeHotel = "HOTEL"
)

// Rent is a tenancy contract between one landlord, one tenant, and one
// property. Start/EndRent are calendar dates stored at UTC midnight, so
// classification never depends on time of day.
type Rent struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PropertyID uint `gorm:"not null;index" json:"property_id"`
	TenantID   uint `gorm:"not null;index" json:"tenant_id"`
	LandlordID uint `gorm:"not null;index" json:"landlord_id"`

	StartRent    time.Time       `gorm:"type:date;not null;index" json:"start_rent"`
	EndRent      time.Time       `gorm:"type:date;not null;index" json:"end_rent"`
	Deposit      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"deposit"`
	PayDayDelay  int             `gorm:"not null;default:0" json:"pay_day_delay"`   // days of grace after the pay day
	SendStateDay int             `gorm:"not null;default:1" json:"send_state_day"`  // day of month meter readings are due
	Purpose      string          `gorm:"type:varchar(10);not null" json:"purpose"`  // LIVE, WORK, HOTEL

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOngoing reports whether the contract is still running as of the given
// date. The EndRent day itself still counts as ongoing.
func (r *Rent) IsOngoing(asOf time.Time) bool {
	return !r.EndRent.Before(asOf)
}

// IsFinished is the complement of IsOngoing.
func (r *Rent) IsFinished(asOf time.Time) bool {
	return !r.IsOngoing(asOf)
}

// Overlaps reports whether the contract overlaps [from, to] at all;
// containment is not required.
func (r *Rent) Overlaps(from, to time.Time) bool {
	return !r.StartRent.After(to) && !r.EndRent.Before(from)
}
