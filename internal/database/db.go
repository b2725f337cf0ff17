package database

import (
	"log"

	"rentalhub/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError turns driver duplicate-key failures into
// gorm.ErrDuplicatedKey, which is how ledger append races surface.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
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
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
