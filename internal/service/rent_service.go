package service

import (
	"context"
	"fmt"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"
)

// --- DTOs ---

type CreateRentRequest struct {
	PropertyID   uint   `json:"property_id" binding:"required"`
	TenantID     uint   `json:"tenant_id" binding:"required"`
	StartRent    string `json:"start_rent" binding:"required"` // YYYY-MM-DD
	EndRent      string `json:"end_rent" binding:"required"`   // YYYY-MM-DD
	Deposit      string `json:"deposit" binding:"required"`
	PayDayDelay  int    `json:"pay_day_delay"`
	SendStateDay int    `json:"send_state_day"`
	Purpose      string `json:"purpose" binding:"required,oneof=LIVE WORK HOTEL"`
}

// UpdateRentRequest replaces scalar fields explicitly; nil means "keep".
type UpdateRentRequest struct {
	StartRent    *string `json:"start_rent"`
	EndRent      *string `json:"end_rent"`
	Deposit      *string `json:"deposit"`
	PayDayDelay  *int    `json:"pay_day_delay"`
	SendStateDay *int    `json:"send_state_day"`
	Purpose      *string `json:"purpose"`
}

type RentResponse struct {
	ID           uint   `json:"id"`
	PropertyID   uint   `json:"property_id"`
	TenantID     uint   `json:"tenant_id"`
	LandlordID   uint   `json:"landlord_id"`
	StartRent    string `json:"start_rent"`
	EndRent      string `json:"end_rent"`
	Deposit      string `json:"deposit"`
	PayDayDelay  int    `json:"pay_day_delay"`
	SendStateDay int    `json:"send_state_day"`
	Purpose      string `json:"purpose"`
	IsOngoing    bool   `json:"is_ongoing"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    string `json:"created_at"`
}

// RentQuery selects which temporal classification a listing applies. AsOf and
// the range bounds always come from the caller, never from the system clock
// inside the service.
type RentQuery struct {
	Classification string // "", "ongoing", "finished", "range"
	AsOf           time.Time
	From           time.Time
	To             time.Time
	Filter         repository.RentListFilter
}

// --- Interface ---

type RentService interface {
	CreateRent(ctx context.Context, req CreateRentRequest, actorID *uint) (RentResponse, error)
	UpdateRent(ctx context.Context, id uint, req UpdateRentRequest, actorID *uint) (RentResponse, error)
	GetRent(ctx context.Context, id uint, asOf time.Time) (RentResponse, error)
	ListRents(ctx context.Context, q RentQuery) ([]RentResponse, int64, error)
	DeleteRent(ctx context.Context, id uint, actorID *uint) error
	UndeleteRent(ctx context.Context, id uint, actorID *uint) error
}

type rentService struct {
	rentRepo     repository.RentRepository
	propertyRepo repository.PropertyRepository
	tenantRepo   repository.TenantRepository
	audit        *AuditRecorder
}

func NewRentService(
	rentRepo repository.RentRepository,
	propertyRepo repository.PropertyRepository,
	tenantRepo repository.TenantRepository,
	audit *AuditRecorder,
) RentService {
	return &rentService{
		rentRepo:     rentRepo,
		propertyRepo: propertyRepo,
		tenantRepo:   tenantRepo,
		audit:        audit,
	}
}

// --- Implementation ---

func (s *rentService) CreateRent(ctx context.Context, req CreateRentRequest, actorID *uint) (RentResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return RentResponse{}, apperr.FromDB(err, fmt.Sprintf("property %d", req.PropertyID))
	}
	if _, err := s.tenantRepo.FindByID(ctx, req.TenantID); err != nil {
		return RentResponse{}, apperr.FromDB(err, fmt.Sprintf("tenant %d", req.TenantID))
	}

	start, err := parseDate("start_rent", req.StartRent)
	if err != nil {
		return RentResponse{}, err
	}
	end, err := parseDate("end_rent", req.EndRent)
	if err != nil {
		return RentResponse{}, err
	}
	if end.Before(start) {
		return RentResponse{}, apperr.Validationf("end_rent precedes start_rent")
	}

	deposit, err := parseDecimal("deposit", req.Deposit)
	if err != nil {
		return RentResponse{}, err
	}

	if req.SendStateDay < 0 || req.SendStateDay > 28 {
		return RentResponse{}, apperr.Validationf("send_state_day must be between 0 and 28")
	}

	rent := &model.Rent{
		PropertyID:   property.ID,
		TenantID:     req.TenantID,
		LandlordID:   property.LandlordID,
		StartRent:    start,
		EndRent:      end,
		Deposit:      deposit,
		PayDayDelay:  req.PayDayDelay,
		SendStateDay: req.SendStateDay,
		Purpose:      req.Purpose,
	}

	if err := s.rentRepo.Create(ctx, rent); err != nil {
		return RentResponse{}, fmt.Errorf("failed to create rent: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionCreateRent, fmt.Sprint(rent.ID),
		fmt.Sprintf("property %d tenant %d", rent.PropertyID, rent.TenantID), req)

	return toRentResponse(*rent, time.Now().UTC()), nil
}

func (s *rentService) UpdateRent(ctx context.Context, id uint, req UpdateRentRequest, actorID *uint) (RentResponse, error) {
	rent, err := s.rentRepo.FindByID(ctx, id)
	if err != nil {
		return RentResponse{}, apperr.FromDB(err, fmt.Sprintf("rent %d", id))
	}

	if req.StartRent != nil {
		start, err := parseDate("start_rent", *req.StartRent)
		if err != nil {
			return RentResponse{}, err
		}
		rent.StartRent = start
	}
	if req.EndRent != nil {
		end, err := parseDate("end_rent", *req.EndRent)
		if err != nil {
			return RentResponse{}, err
		}
		rent.EndRent = end
	}
	if rent.EndRent.Before(rent.StartRent) {
		return RentResponse{}, apperr.Validationf("end_rent precedes start_rent")
	}
	if req.Deposit != nil {
		deposit, err := parseDecimal("deposit", *req.Deposit)
		if err != nil {
			return RentResponse{}, err
		}
		rent.Deposit = deposit
	}
	if req.PayDayDelay != nil {
		rent.PayDayDelay = *req.PayDayDelay
	}
	if req.SendStateDay != nil {
		if *req.SendStateDay < 0 || *req.SendStateDay > 28 {
			return RentResponse{}, apperr.Validationf("send_state_day must be between 0 and 28")
		}
		rent.SendStateDay = *req.SendStateDay
	}
	if req.Purpose != nil {
		switch *req.Purpose {
		case model.PurposeLive, model.PurposeWork, model.PurposeHotel:
			rent.Purpose = *req.Purpose
		default:
			return RentResponse{}, apperr.Validationf("purpose must be one of: LIVE, WORK, HOTEL")
		}
	}

	if err := s.rentRepo.Update(ctx, rent); err != nil {
		return RentResponse{}, fmt.Errorf("failed to update rent: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateRent, fmt.Sprint(rent.ID),
		fmt.Sprintf("property %d tenant %d", rent.PropertyID, rent.TenantID), req)

	return toRentResponse(*rent, time.Now().UTC()), nil
}

func (s *rentService) GetRent(ctx context.Context, id uint, asOf time.Time) (RentResponse, error) {
	rent, err := s.rentRepo.FindByID(ctx, id)
	if err != nil {
		return RentResponse{}, apperr.FromDB(err, fmt.Sprintf("rent %d", id))
	}
	return toRentResponse(*rent, asOf), nil
}

func (s *rentService) ListRents(ctx context.Context, q RentQuery) ([]RentResponse, int64, error) {
	if q.Filter.Page <= 0 {
		q.Filter.Page = 1
	}
	if q.Filter.Limit <= 0 {
		q.Filter.Limit = 20
	}

	var (
		rents []model.Rent
		total int64
		err   error
	)
	switch q.Classification {
	case "ongoing":
		rents, total, err = s.rentRepo.ListOngoing(ctx, q.AsOf, q.Filter)
	case "finished":
		rents, total, err = s.rentRepo.ListFinished(ctx, q.AsOf, q.Filter)
	case "range":
		if q.To.Before(q.From) {
			return nil, 0, apperr.Validationf("range end precedes range start")
		}
		rents, total, err = s.rentRepo.ListOverlapping(ctx, q.From, q.To, q.Filter)
	case "":
		rents, total, err = s.rentRepo.List(ctx, q.Filter)
	default:
		return nil, 0, apperr.Validationf("unknown classification %q", q.Classification)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rents: %w", err)
	}

	res := make([]RentResponse, 0, len(rents))
	for _, r := range rents {
		res = append(res, toRentResponse(r, q.AsOf))
	}
	return res, total, nil
}

func (s *rentService) DeleteRent(ctx context.Context, id uint, actorID *uint) error {
	rent, err := s.rentRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("rent %d", id))
	}

	// States and invoices stay untouched: history survives the delete.
	if err := s.rentRepo.SoftDelete(ctx, rent.ID); err != nil {
		return fmt.Errorf("failed to delete rent: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteRent, fmt.Sprint(rent.ID),
		fmt.Sprintf("property %d tenant %d", rent.PropertyID, rent.TenantID), nil)

	return nil
}

func (s *rentService) UndeleteRent(ctx context.Context, id uint, actorID *uint) error {
	rent, err := s.rentRepo.FindByIDAny(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("rent %d", id))
	}

	if !rent.DeletedAt.Valid {
		return nil
	}

	if err := s.rentRepo.Restore(ctx, rent.ID); err != nil {
		return fmt.Errorf("failed to restore rent: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUndeleteRent, fmt.Sprint(rent.ID),
		fmt.Sprintf("property %d tenant %d", rent.PropertyID, rent.TenantID), nil)

	return nil
}

// --- Mapping ---

func toRentResponse(r model.Rent, asOf time.Time) RentResponse {
	return RentResponse{
		ID:           r.ID,
		PropertyID:   r.PropertyID,
		TenantID:     r.TenantID,
		LandlordID:   r.LandlordID,
		StartRent:    formatDate(r.StartRent),
		EndRent:      formatDate(r.EndRent),
		Deposit:      r.Deposit.StringFixed(2),
		PayDayDelay:  r.PayDayDelay,
		SendStateDay: r.SendStateDay,
		Purpose:      r.Purpose,
		IsOngoing:    r.IsOngoing(asOf),
		IsDeleted:    r.DeletedAt.Valid,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
