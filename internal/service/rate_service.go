package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"gorm.io/gorm"
)

// --- DTOs ---

// CreateRateRequest carries all prices as decimal strings; optional utility
// prices left empty mean the property does not meter that utility.
type CreateRateRequest struct {
	PropertyID uint `json:"property_id" binding:"required"`

	ColdWaterPrice string `json:"cold_water_price" binding:"required"`
	EnergyPrice    string `json:"energy_price" binding:"required"`
	HotWaterPrice  string `json:"hot_water_price"`
	GasPrice       string `json:"gas_price"`
	HeatPrice      string `json:"heat_price"`

	WaterVAT  string `json:"water_vat" binding:"required"`
	GasVAT    string `json:"gas_vat"`
	EnergyVAT string `json:"energy_vat" binding:"required"`
	HeatVAT   string `json:"heat_vat"`
	RentVAT   string `json:"rent_vat" binding:"required"`

	GasSubscription    string `json:"gas_subscription"`
	EnergySubscription string `json:"energy_subscription"`
	HeatSubscription   string `json:"heat_subscription"`

	LandlordRent string `json:"landlord_rent" binding:"required"`
	HousingRent  string `json:"housing_rent" binding:"required"`

	EffectiveFrom string `json:"effective_from" binding:"required"` // YYYY-MM-DD
	EffectiveTo   string `json:"effective_to"`                      // YYYY-MM-DD, empty = open-ended
}

type RateResponse struct {
	ID         uint `json:"id"`
	PropertyID uint `json:"property_id"`

	ColdWaterPrice string  `json:"cold_water_price"`
	EnergyPrice    string  `json:"energy_price"`
	HotWaterPrice  *string `json:"hot_water_price"`
	GasPrice       *string `json:"gas_price"`
	HeatPrice      *string `json:"heat_price"`

	WaterVAT  string `json:"water_vat"`
	GasVAT    string `json:"gas_vat"`
	EnergyVAT string `json:"energy_vat"`
	HeatVAT   string `json:"heat_vat"`
	RentVAT   string `json:"rent_vat"`

	GasSubscription    *string `json:"gas_subscription"`
	EnergySubscription string  `json:"energy_subscription"`
	HeatSubscription   *string `json:"heat_subscription"`

	LandlordRent string `json:"landlord_rent"`
	HousingRent  string `json:"housing_rent"`

	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

type RateService interface {
	CreateRate(ctx context.Context, req CreateRateRequest, actorID *uint) (RateResponse, error)
	UpdateRate(ctx context.Context, id uint, req CreateRateRequest, actorID *uint) (RateResponse, error)
	DeleteRate(ctx context.Context, id uint, actorID *uint) error
	GetRate(ctx context.Context, id uint) (RateResponse, error)
	ListRatesByProperty(ctx context.Context, propertyID uint) ([]RateResponse, error)
	// GetActiveRate resolves the rate in force for the property on the
	// given date.
	GetActiveRate(ctx context.Context, propertyID uint, date time.Time) (RateResponse, error)
}

type rateService struct {
	rateRepo     repository.RateRepository
	propertyRepo repository.PropertyRepository
	audit        *AuditRecorder
}

func NewRateService(rateRepo repository.RateRepository, propertyRepo repository.PropertyRepository, audit *AuditRecorder) RateService {
	return &rateService{rateRepo: rateRepo, propertyRepo: propertyRepo, audit: audit}
}

// --- Implementation ---

func (s *rateService) buildRate(ctx context.Context, req CreateRateRequest, excludeID uint) (*model.Rate, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("property %d", req.PropertyID)
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}

	rate := &model.Rate{PropertyID: property.ID}

	if rate.ColdWaterPrice, err = parseDecimal("cold_water_price", req.ColdWaterPrice); err != nil {
		return nil, err
	}
	if rate.EnergyPrice, err = parseDecimal("energy_price", req.EnergyPrice); err != nil {
		return nil, err
	}
	if rate.HotWaterPrice, err = parseNullDecimal("hot_water_price", req.HotWaterPrice); err != nil {
		return nil, err
	}
	if rate.GasPrice, err = parseNullDecimal("gas_price", req.GasPrice); err != nil {
		return nil, err
	}
	if rate.HeatPrice, err = parseNullDecimal("heat_price", req.HeatPrice); err != nil {
		return nil, err
	}

	// A price must exist exactly for the utilities the property carries;
	// null and zero stay distinct on purpose.
	flags := property.Flags()
	for _, check := range []struct {
		cat     model.UtilityCategory
		present bool
	}{
		{model.UtilityHotWater, rate.HotWaterPrice.Valid},
		{model.UtilityGas, rate.GasPrice.Valid},
		{model.UtilityHeat, rate.HeatPrice.Valid},
	} {
		if flags.Has(check.cat) && !check.present {
			return nil, apperr.Validationf("property %d meters %s but no price was given", property.ID, check.cat)
		}
		if !flags.Has(check.cat) && check.present {
			return nil, apperr.Validationf("property %d does not meter %s", property.ID, check.cat)
		}
	}

	if rate.WaterVAT, err = parseDecimal("water_vat", req.WaterVAT); err != nil {
		return nil, err
	}
	if rate.EnergyVAT, err = parseDecimal("energy_vat", req.EnergyVAT); err != nil {
		return nil, err
	}
	if rate.RentVAT, err = parseDecimal("rent_vat", req.RentVAT); err != nil {
		return nil, err
	}
	if req.GasVAT != "" {
		if rate.GasVAT, err = parseDecimal("gas_vat", req.GasVAT); err != nil {
			return nil, err
		}
	}
	if req.HeatVAT != "" {
		if rate.HeatVAT, err = parseDecimal("heat_vat", req.HeatVAT); err != nil {
			return nil, err
		}
	}

	if rate.GasSubscription, err = parseNullDecimal("gas_subscription", req.GasSubscription); err != nil {
		return nil, err
	}
	if rate.HeatSubscription, err = parseNullDecimal("heat_subscription", req.HeatSubscription); err != nil {
		return nil, err
	}
	if req.EnergySubscription != "" {
		if rate.EnergySubscription, err = parseDecimal("energy_subscription", req.EnergySubscription); err != nil {
			return nil, err
		}
	}

	if rate.LandlordRent, err = parseDecimal("landlord_rent", req.LandlordRent); err != nil {
		return nil, err
	}
	if rate.HousingRent, err = parseDecimal("housing_rent", req.HousingRent); err != nil {
		return nil, err
	}

	if rate.EffectiveFrom, err = parseDate("effective_from", req.EffectiveFrom); err != nil {
		return nil, err
	}
	if req.EffectiveTo != "" {
		to, err := parseDate("effective_to", req.EffectiveTo)
		if err != nil {
			return nil, err
		}
		if to.Before(rate.EffectiveFrom) {
			return nil, apperr.Validationf("effective_to precedes effective_from")
		}
		rate.EffectiveTo = &to
	}

	// At most one rate in force per property per date.
	count, err := s.rateRepo.CountOverlapping(ctx, property.ID, rate.EffectiveFrom, rate.EffectiveTo, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate overlap: %w", err)
	}
	if count > 0 {
		return nil, apperr.Validationf("property %d already has a rate with overlapping effective dates", property.ID)
	}

	return rate, nil
}

func (s *rateService) CreateRate(ctx context.Context, req CreateRateRequest, actorID *uint) (RateResponse, error) {
	rate, err := s.buildRate(ctx, req, 0)
	if err != nil {
		return RateResponse{}, err
	}

	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return RateResponse{}, fmt.Errorf("failed to create rate: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionCreateRate, fmt.Sprint(rate.ID),
		fmt.Sprintf("property %d from %s", rate.PropertyID, formatDate(rate.EffectiveFrom)), req)

	return toRateResponse(*rate), nil
}

func (s *rateService) UpdateRate(ctx context.Context, id uint, req CreateRateRequest, actorID *uint) (RateResponse, error) {
	existing, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return RateResponse{}, apperr.FromDB(err, fmt.Sprintf("rate %d", id))
	}

	rate, err := s.buildRate(ctx, req, existing.ID)
	if err != nil {
		return RateResponse{}, err
	}
	rate.ID = existing.ID
	rate.CreatedAt = existing.CreatedAt

	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return RateResponse{}, fmt.Errorf("failed to update rate: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateRate, fmt.Sprint(rate.ID),
		fmt.Sprintf("property %d from %s", rate.PropertyID, formatDate(rate.EffectiveFrom)), req)

	return toRateResponse(*rate), nil
}

func (s *rateService) DeleteRate(ctx context.Context, id uint, actorID *uint) error {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("rate %d", id))
	}

	if err := s.rateRepo.Delete(ctx, rate.ID); err != nil {
		return fmt.Errorf("failed to delete rate: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteRate, fmt.Sprint(rate.ID),
		fmt.Sprintf("property %d", rate.PropertyID), map[string]uint{"deleted_id": rate.ID})

	return nil
}

func (s *rateService) GetRate(ctx context.Context, id uint) (RateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return RateResponse{}, apperr.FromDB(err, fmt.Sprintf("rate %d", id))
	}
	return toRateResponse(*rate), nil
}

func (s *rateService) ListRatesByProperty(ctx context.Context, propertyID uint) ([]RateResponse, error) {
	rates, err := s.rateRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}

	res := make([]RateResponse, 0, len(rates))
	for _, r := range rates {
		res = append(res, toRateResponse(r))
	}
	return res, nil
}

func (s *rateService) GetActiveRate(ctx context.Context, propertyID uint, date time.Time) (RateResponse, error) {
	rate, err := s.rateRepo.FindActiveAt(ctx, propertyID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RateResponse{}, apperr.NotFoundf("no rate in force for property %d on %s", propertyID, formatDate(date))
		}
		return RateResponse{}, fmt.Errorf("failed to query active rate: %w", err)
	}
	return toRateResponse(*rate), nil
}

// --- Mapping ---

func toRateResponse(r model.Rate) RateResponse {
	resp := RateResponse{
		ID:         r.ID,
		PropertyID: r.PropertyID,

		ColdWaterPrice: r.ColdWaterPrice.StringFixed(4),
		EnergyPrice:    r.EnergyPrice.StringFixed(4),
		HotWaterPrice:  formatNullDecimal(r.HotWaterPrice, 4),
		GasPrice:       formatNullDecimal(r.GasPrice, 4),
		HeatPrice:      formatNullDecimal(r.HeatPrice, 4),

		WaterVAT:  r.WaterVAT.StringFixed(2),
		GasVAT:    r.GasVAT.StringFixed(2),
		EnergyVAT: r.EnergyVAT.StringFixed(2),
		HeatVAT:   r.HeatVAT.StringFixed(2),
		RentVAT:   r.RentVAT.StringFixed(2),

		GasSubscription:    formatNullDecimal(r.GasSubscription, 4),
		EnergySubscription: r.EnergySubscription.StringFixed(4),
		HeatSubscription:   formatNullDecimal(r.HeatSubscription, 4),

		LandlordRent: r.LandlordRent.StringFixed(4),
		HousingRent:  r.HousingRent.StringFixed(4),

		EffectiveFrom: formatDate(r.EffectiveFrom),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.EffectiveTo != nil {
		s := formatDate(*r.EffectiveTo)
		resp.EffectiveTo = &s
	}
	return resp
}
