package model

import "time"

// Photo is an evidentiary image of one meter backing a state. TakenAt is the
// EXIF capture timestamp when the upload carried one.
type Photo struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	MeterStateID uint            `gorm:"not null;index" json:"meter_state_id"`
	Category     UtilityCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	FileName     string          `gorm:"type:varchar(255);not null" json:"file_name"`
	Image        []byte          `gorm:"type:bytea;not null" json:"-"`
	TakenAt      *time.Time      `json:"taken_at"`
	CreatedAt    time.Time       `json:"created_at"`
}
