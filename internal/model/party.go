package model

import (
	"time"

	"gorm.io/gorm"
)

// Landlord is the billing party that owns properties. The optional UserID links
// to the login account of the landlord.
type Landlord struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`
	BankAccount string         `gorm:"type:varchar(100)" json:"bank_account"`
	AddressID   uint           `gorm:"not null;index" json:"address_id"`
	Address     Address        `gorm:"foreignKey:AddressID" json:"address"`
	UserID      *uint          `gorm:"index" json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tenant is the party renting a property.
type Tenant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	AddressID uint           `gorm:"not null;index" json:"address_id"`
	Address   Address        `gorm:"foreignKey:AddressID" json:"address"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
