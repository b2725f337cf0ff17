package service

import (
	"context"
	"fmt"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type AddressPayload struct {
	Street  string `json:"street" binding:"required"`
	Number  string `json:"number" binding:"required"`
	City    string `json:"city" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type AddressResponse struct {
	ID      uint   `json:"id"`
	Street  string `json:"street"`
	Number  string `json:"number"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type CreatePropertyRequest struct {
	LandlordID  uint           `json:"landlord_id" binding:"required"`
	Address     AddressPayload `json:"address" binding:"required"`
	RoomCount   int            `json:"room_count" binding:"required,min=1"`
	Size        string         `json:"size" binding:"required"` // square meters, decimal string
	HasGas      bool           `json:"has_gas"`
	HasHotWater bool           `json:"has_hot_water"`
	HasHeat     bool           `json:"has_heat"`
}

// UpdatePropertyRequest replaces scalar fields explicitly; nil means "keep".
type UpdatePropertyRequest struct {
	Address     *AddressPayload `json:"address"`
	RoomCount   *int            `json:"room_count"`
	Size        *string         `json:"size"`
	HasGas      *bool           `json:"has_gas"`
	HasHotWater *bool           `json:"has_hot_water"`
	HasHeat     *bool           `json:"has_heat"`
}

type PropertyResponse struct {
	ID          uint            `json:"id"`
	LandlordID  uint            `json:"landlord_id"`
	Address     AddressResponse `json:"address"`
	RoomCount   int             `json:"room_count"`
	Size        string          `json:"size"`
	HasGas      bool            `json:"has_gas"`
	HasHotWater bool            `json:"has_hot_water"`
	HasHeat     bool            `json:"has_heat"`
	IsDeleted   bool            `json:"is_deleted"`
	CreatedAt   string          `json:"created_at"`
}

// --- Interface ---

type PropertyService interface {
	CreateProperty(ctx context.Context, req CreatePropertyRequest, actorID *uint) (PropertyResponse, error)
	UpdateProperty(ctx context.Context, id uint, req UpdatePropertyRequest, actorID *uint) (PropertyResponse, error)
	GetProperty(ctx context.Context, id uint) (PropertyResponse, error)
	ListProperties(ctx context.Context, filter repository.PropertyListFilter) ([]PropertyResponse, int64, error)
	// DeleteProperty soft-deletes the property together with its own
	// address row. Rents stay independently addressable so historical
	// invoices are never orphaned.
	DeleteProperty(ctx context.Context, id uint, actorID *uint) error
	// UndeleteProperty restores exactly what DeleteProperty hid. Undoing
	// an already-visible property is a no-op success.
	UndeleteProperty(ctx context.Context, id uint, actorID *uint) error
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	landlordRepo repository.LandlordRepository
	txManager    repository.TransactionManager
	audit        *AuditRecorder
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	landlordRepo repository.LandlordRepository,
	txManager repository.TransactionManager,
	audit *AuditRecorder,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		landlordRepo: landlordRepo,
		txManager:    txManager,
		audit:        audit,
	}
}

// --- Implementation ---

func (s *propertyService) CreateProperty(ctx context.Context, req CreatePropertyRequest, actorID *uint) (PropertyResponse, error) {
	if _, err := s.landlordRepo.FindByID(ctx, req.LandlordID); err != nil {
		return PropertyResponse{}, apperr.FromDB(err, fmt.Sprintf("landlord %d", req.LandlordID))
	}

	size, err := parseDecimal("size", req.Size)
	if err != nil {
		return PropertyResponse{}, err
	}
	if size.LessThanOrEqual(decimal.Zero) {
		return PropertyResponse{}, apperr.Validationf("size must be positive")
	}

	property := &model.Property{
		LandlordID:  req.LandlordID,
		Address:     toAddressModel(req.Address),
		RoomCount:   req.RoomCount,
		Size:        size,
		HasGas:      req.HasGas,
		HasHotWater: req.HasHotWater,
		HasHeat:     req.HasHeat,
	}

	// GORM creates the property and its address in one Create via the
	// association.
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return PropertyResponse{}, fmt.Errorf("failed to create property: %w", err)
	}
	property.AddressID = property.Address.ID

	s.audit.Record(ctx, actorID, model.ActionCreateProperty, fmt.Sprint(property.ID),
		property.Address.City+" "+property.Address.Street, req)

	return toPropertyResponse(*property), nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, id uint, req UpdatePropertyRequest, actorID *uint) (PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return PropertyResponse{}, apperr.FromDB(err, fmt.Sprintf("property %d", id))
	}

	if req.RoomCount != nil {
		if *req.RoomCount < 1 {
			return PropertyResponse{}, apperr.Validationf("room_count must be at least 1")
		}
		property.RoomCount = *req.RoomCount
	}
	if req.Size != nil {
		size, err := parseDecimal("size", *req.Size)
		if err != nil {
			return PropertyResponse{}, err
		}
		if size.LessThanOrEqual(decimal.Zero) {
			return PropertyResponse{}, apperr.Validationf("size must be positive")
		}
		property.Size = size
	}
	if req.HasGas != nil {
		property.HasGas = *req.HasGas
	}
	if req.HasHotWater != nil {
		property.HasHotWater = *req.HasHotWater
	}
	if req.HasHeat != nil {
		property.HasHeat = *req.HasHeat
	}
	if req.Address != nil {
		addr := toAddressModel(*req.Address)
		addr.ID = property.AddressID
		addr.CreatedAt = property.Address.CreatedAt
		property.Address = addr
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return PropertyResponse{}, fmt.Errorf("failed to update property: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateProperty, fmt.Sprint(property.ID),
		property.Address.City+" "+property.Address.Street, req)

	return toPropertyResponse(*property), nil
}

func (s *propertyService) GetProperty(ctx context.Context, id uint) (PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return PropertyResponse{}, apperr.FromDB(err, fmt.Sprintf("property %d", id))
	}
	return toPropertyResponse(*property), nil
}

func (s *propertyService) ListProperties(ctx context.Context, filter repository.PropertyListFilter) ([]PropertyResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	properties, total, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	res := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		res = append(res, toPropertyResponse(p))
	}
	return res, total, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, id uint, actorID *uint) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("property %d", id))
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.propertyRepo.SoftDelete(txCtx, property)
	})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteProperty, fmt.Sprint(property.ID),
		property.Address.City+" "+property.Address.Street, nil)

	return nil
}

func (s *propertyService) UndeleteProperty(ctx context.Context, id uint, actorID *uint) error {
	property, err := s.propertyRepo.FindByIDAny(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("property %d", id))
	}

	// Already visible: restoring is idempotent.
	if !property.DeletedAt.Valid {
		return nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.propertyRepo.Restore(txCtx, property)
	})
	if err != nil {
		return fmt.Errorf("failed to restore property: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUndeleteProperty, fmt.Sprint(property.ID),
		property.Address.City+" "+property.Address.Street, nil)

	return nil
}

// --- Mapping ---

func toAddressModel(p AddressPayload) model.Address {
	return model.Address{
		Street:  p.Street,
		Number:  p.Number,
		City:    p.City,
		ZipCode: p.ZipCode,
		Country: p.Country,
	}
}

func toAddressResponse(a model.Address) AddressResponse {
	return AddressResponse{
		ID:      a.ID,
		Street:  a.Street,
		Number:  a.Number,
		City:    a.City,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func toPropertyResponse(p model.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		LandlordID:  p.LandlordID,
		Address:     toAddressResponse(p.Address),
		RoomCount:   p.RoomCount,
		Size:        p.Size.StringFixed(2),
		HasGas:      p.HasGas,
		HasHotWater: p.HasHotWater,
		HasHeat:     p.HasHeat,
		IsDeleted:   p.DeletedAt.Valid,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
