package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentClassification(t *testing.T) {
	rent := &Rent{
		StartRent: day(2024, time.March, 1),
		EndRent:   day(2025, time.February, 28),
	}

	tests := []struct {
		name    string
		asOf    time.Time
		ongoing bool
	}{
		{"before start", day(2024, time.January, 15), true},
		{"first day", day(2024, time.March, 1), true},
		{"mid contract", day(2024, time.September, 10), true},
		{"last day still ongoing", day(2025, time.February, 28), true},
		{"day after end", day(2025, time.March, 1), false},
		{"far future", day(2099, time.January, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ongoing, rent.IsOngoing(tt.asOf))
			assert.Equal(t, !tt.ongoing, rent.IsFinished(tt.asOf))
		})
	}
}

func TestRentOverlaps(t *testing.T) {
	rent := &Rent{
		StartRent: day(2024, time.March, 1),
		EndRent:   day(2024, time.August, 31),
	}

	tests := []struct {
		name     string
		from, to time.Time
		want     bool
	}{
		{"fully inside", day(2024, time.April, 1), day(2024, time.May, 1), true},
		{"contains contract", day(2024, time.January, 1), day(2024, time.December, 31), true},
		{"touches start", day(2024, time.January, 1), day(2024, time.March, 1), true},
		{"touches end", day(2024, time.August, 31), day(2024, time.October, 1), true},
		{"entirely before", day(2023, time.January, 1), day(2024, time.February, 29), false},
		{"entirely after", day(2024, time.September, 1), day(2025, time.January, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rent.Overlaps(tt.from, tt.to))
		})
	}
}
