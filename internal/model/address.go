package model

import (
	"time"

	"gorm.io/gorm"
)

// Address is owned 1:1 by a Property, Landlord, or Tenant and shares its
// owner's soft-delete lifecycle (address rows are never shared between owners).
type Address struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Street    string         `gorm:"type:varchar(255);not null" json:"street"`
	Number    string         `gorm:"type:varchar(20);not null" json:"number"`
	City      string         `gorm:"type:varchar(100);not null" json:"city"`
	ZipCode   string         `gorm:"type:varchar(20);not null" json:"zip_code"`
	Country   string         `gorm:"type:varchar(100);not null" json:"country"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
