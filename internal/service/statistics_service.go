package service

import (
	"context"
	"time"

	"rentalhub/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OccupancyStats struct {
	AsOf     string `json:"as_of"`
	Ongoing  int64  `json:"ongoing"`
	Finished int64  `json:"finished"`
	Total    int64  `json:"total"`
}

type PropertyRevenue struct {
	PropertyID   uint            `json:"property_id"`
	Street       string          `json:"street"`
	City         string          `json:"city"`
	InvoiceCount int64           `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type RevenueStats struct {
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Total       decimal.Decimal   `json:"total"`
	Properties  []PropertyRevenue `json:"properties"`
}

type CategoryConsumption struct {
	Category    string          `json:"category"`
	Consumption decimal.Decimal `json:"consumption"`
	Net         decimal.Decimal `json:"net"`
}

type ConsumptionStats struct {
	RentID      uint                  `json:"rent_id"`
	PeriodStart string                `json:"period_start"`
	PeriodEnd   string                `json:"period_end"`
	Categories  []CategoryConsumption `json:"categories"`
}

type StatisticsService interface {
	GetOccupancy(ctx context.Context, asOf time.Time) (OccupancyStats, error)
	GetRevenue(ctx context.Context, from, to time.Time) (RevenueStats, error)
	GetConsumption(ctx context.Context, rentID uint, from, to time.Time) (ConsumptionStats, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetOccupancy counts ongoing versus finished rents as of a reference date.
func (s *statisticsService) GetOccupancy(ctx context.Context, asOf time.Time) (OccupancyStats, error) {
	stats := OccupancyStats{AsOf: formatDate(asOf)}

	err := s.db.WithContext(ctx).Model(&model.Rent{}).
		Where("end_rent >= ?", asOf).
		Count(&stats.Ongoing).Error
	if err != nil {
		return OccupancyStats{}, err
	}

	err = s.db.WithContext(ctx).Model(&model.Rent{}).
		Where("end_rent < ?", asOf).
		Count(&stats.Finished).Error
	if err != nil {
		return OccupancyStats{}, err
	}

	stats.Total = stats.Ongoing + stats.Finished
	return stats, nil
}

// GetRevenue sums issued invoice totals per property over a period,
// keyed on the invoice period end falling inside the window.
func (s *statisticsService) GetRevenue(ctx context.Context, from, to time.Time) (RevenueStats, error) {
	stats := RevenueStats{
		PeriodStart: formatDate(from),
		PeriodEnd:   formatDate(to),
		Total:       decimal.Zero,
	}

	var rows []struct {
		PropertyID   uint
		Street       string
		City         string
		InvoiceCount int64
		Revenue      decimal.Decimal
	}
	err := s.db.WithContext(ctx).Table("invoices").
		Select("rents.property_id as property_id, addresses.street as street, addresses.city as city, COUNT(invoices.id) as invoice_count, SUM(invoices.total) as revenue").
		Joins("JOIN rents ON rents.id = invoices.rent_id").
		Joins("JOIN properties ON properties.id = rents.property_id").
		Joins("JOIN addresses ON addresses.id = properties.address_id").
		Where("invoices.period_end >= ? AND invoices.period_end <= ?", from, to).
		Group("rents.property_id, addresses.street, addresses.city").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return RevenueStats{}, err
	}

	stats.Properties = make([]PropertyRevenue, 0, len(rows))
	for _, row := range rows {
		stats.Properties = append(stats.Properties, PropertyRevenue{
			PropertyID:   row.PropertyID,
			Street:       row.Street,
			City:         row.City,
			InvoiceCount: row.InvoiceCount,
			Revenue:      row.Revenue,
		})
		stats.Total = stats.Total.Add(row.Revenue)
	}
	return stats, nil
}

// GetConsumption sums per-category metered consumption for one rent from its
// invoices over a period.
func (s *statisticsService) GetConsumption(ctx context.Context, rentID uint, from, to time.Time) (ConsumptionStats, error) {
	stats := ConsumptionStats{
		RentID:      rentID,
		PeriodStart: formatDate(from),
		PeriodEnd:   formatDate(to),
	}

	var invoices []model.Invoice
	err := s.db.WithContext(ctx).
		Where("rent_id = ? AND period_end >= ? AND period_end <= ?", rentID, from, to).
		Order("period_end").
		Find(&invoices).Error
	if err != nil {
		return ConsumptionStats{}, err
	}

	for _, category := range model.AllUtilities {
		consumption := decimal.Zero
		net := decimal.Zero
		seen := false
		for i := range invoices {
			line := invoices[i].Line(category)
			if !line.Applicable {
				continue
			}
			seen = true
			consumption = consumption.Add(line.Consumption)
			net = net.Add(line.Net)
		}
		if !seen {
			continue
		}
		stats.Categories = append(stats.Categories, CategoryConsumption{
			Category:    string(category),
			Consumption: consumption,
			Net:         net,
		})
	}
	return stats, nil
}
