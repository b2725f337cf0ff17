package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"
)

// --- DTOs ---

type CreateLandlordRequest struct {
	Name        string         `json:"name" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Phone       string         `json:"phone"`
	BankAccount string         `json:"bank_account"`
	Address     AddressPayload `json:"address" binding:"required"`
	UserID      *uint          `json:"user_id"`
}

type UpdateLandlordRequest struct {
	Name        *string         `json:"name"`
	Email       *string         `json:"email"`
	Phone       *string         `json:"phone"`
	BankAccount *string         `json:"bank_account"`
	Address     *AddressPayload `json:"address"`
}

type LandlordResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	BankAccount string          `json:"bank_account"`
	Address     AddressResponse `json:"address"`
	UserID      *uint           `json:"user_id"`
	IsDeleted   bool            `json:"is_deleted"`
	CreatedAt   string          `json:"created_at"`
}

type CreateTenantRequest struct {
	Name    string         `json:"name" binding:"required"`
	Email   string         `json:"email" binding:"required,email"`
	Phone   string         `json:"phone"`
	Address AddressPayload `json:"address" binding:"required"`
	UserID  *uint          `json:"user_id"`
}

type UpdateTenantRequest struct {
	Name    *string         `json:"name"`
	Email   *string         `json:"email"`
	Phone   *string         `json:"phone"`
	Address *AddressPayload `json:"address"`
}

type TenantResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   AddressResponse `json:"address"`
	UserID    *uint           `json:"user_id"`
	IsDeleted bool            `json:"is_deleted"`
	CreatedAt string          `json:"created_at"`
}

// --- Interfaces ---

type LandlordService interface {
	CreateLandlord(ctx context.Context, req CreateLandlordRequest) (LandlordResponse, error)
	UpdateLandlord(ctx context.Context, id uint, req UpdateLandlordRequest) (LandlordResponse, error)
	GetLandlord(ctx context.Context, id uint) (LandlordResponse, error)
	ListLandlords(ctx context.Context, search string, page, limit int) ([]LandlordResponse, int64, error)
	// DeleteLandlord refuses while the landlord still has visible
	// properties or ongoing rents; bills must keep a billable party.
	DeleteLandlord(ctx context.Context, id uint, asOf time.Time, actorID *uint) error
	UndeleteLandlord(ctx context.Context, id uint, actorID *uint) error
}

type TenantService interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error)
	UpdateTenant(ctx context.Context, id uint, req UpdateTenantRequest) (TenantResponse, error)
	GetTenant(ctx context.Context, id uint) (TenantResponse, error)
	ListTenants(ctx context.Context, search string, page, limit int) ([]TenantResponse, int64, error)
	// DeleteTenant refuses while the tenant has ongoing rents.
	DeleteTenant(ctx context.Context, id uint, asOf time.Time, actorID *uint) error
	UndeleteTenant(ctx context.Context, id uint, actorID *uint) error
}

// --- Landlord implementation ---

type landlordService struct {
	landlordRepo repository.LandlordRepository
	propertyRepo repository.PropertyRepository
	rentRepo     repository.RentRepository
	txManager    repository.TransactionManager
	audit        *AuditRecorder
}

func NewLandlordService(
	landlordRepo repository.LandlordRepository,
	propertyRepo repository.PropertyRepository,
	rentRepo repository.RentRepository,
	txManager repository.TransactionManager,
	audit *AuditRecorder,
) LandlordService {
	return &landlordService{
		landlordRepo: landlordRepo,
		propertyRepo: propertyRepo,
		rentRepo:     rentRepo,
		txManager:    txManager,
		audit:        audit,
	}
}

func validEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validationf("invalid email format")
	}
	return nil
}

func (s *landlordService) CreateLandlord(ctx context.Context, req CreateLandlordRequest) (LandlordResponse, error) {
	if err := validEmail(req.Email); err != nil {
		return LandlordResponse{}, err
	}

	landlord := &model.Landlord{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		BankAccount: req.BankAccount,
		Address:     toAddressModel(req.Address),
		UserID:      req.UserID,
	}

	if err := s.landlordRepo.Create(ctx, landlord); err != nil {
		return LandlordResponse{}, apperr.FromDB(err, "create landlord")
	}
	landlord.AddressID = landlord.Address.ID

	return toLandlordResponse(*landlord), nil
}

func (s *landlordService) UpdateLandlord(ctx context.Context, id uint, req UpdateLandlordRequest) (LandlordResponse, error) {
	landlord, err := s.landlordRepo.FindByID(ctx, id)
	if err != nil {
		return LandlordResponse{}, apperr.FromDB(err, fmt.Sprintf("landlord %d", id))
	}

	if req.Name != nil {
		if *req.Name == "" {
			return LandlordResponse{}, apperr.Validationf("name cannot be empty")
		}
		landlord.Name = *req.Name
	}
	if req.Email != nil {
		if err := validEmail(*req.Email); err != nil {
			return LandlordResponse{}, err
		}
		landlord.Email = *req.Email
	}
	if req.Phone != nil {
		landlord.Phone = *req.Phone
	}
	if req.BankAccount != nil {
		landlord.BankAccount = *req.BankAccount
	}
	if req.Address != nil {
		addr := toAddressModel(*req.Address)
		addr.ID = landlord.AddressID
		addr.CreatedAt = landlord.Address.CreatedAt
		landlord.Address = addr
	}

	if err := s.landlordRepo.Update(ctx, landlord); err != nil {
		return LandlordResponse{}, fmt.Errorf("failed to update landlord: %w", err)
	}

	return toLandlordResponse(*landlord), nil
}

func (s *landlordService) GetLandlord(ctx context.Context, id uint) (LandlordResponse, error) {
	landlord, err := s.landlordRepo.FindByID(ctx, id)
	if err != nil {
		return LandlordResponse{}, apperr.FromDB(err, fmt.Sprintf("landlord %d", id))
	}
	return toLandlordResponse(*landlord), nil
}

func (s *landlordService) ListLandlords(ctx context.Context, search string, page, limit int) ([]LandlordResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	landlords, total, err := s.landlordRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch landlords: %w", err)
	}

	res := make([]LandlordResponse, 0, len(landlords))
	for _, l := range landlords {
		res = append(res, toLandlordResponse(l))
	}
	return res, total, nil
}

func (s *landlordService) DeleteLandlord(ctx context.Context, id uint, asOf time.Time, actorID *uint) error {
	landlord, err := s.landlordRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("landlord %d", id))
	}

	properties, err := s.propertyRepo.CountVisibleByLandlord(ctx, landlord.ID)
	if err != nil {
		return fmt.Errorf("failed to count properties: %w", err)
	}
	if properties > 0 {
		return apperr.Validationf("landlord %d still has %d properties", landlord.ID, properties)
	}

	ongoing, err := s.rentRepo.CountOngoingByLandlord(ctx, landlord.ID, asOf)
	if err != nil {
		return fmt.Errorf("failed to count ongoing rents: %w", err)
	}
	if ongoing > 0 {
		return apperr.Validationf("landlord %d still has %d ongoing rents", landlord.ID, ongoing)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.landlordRepo.SoftDelete(txCtx, landlord)
	})
	if err != nil {
		return fmt.Errorf("failed to delete landlord: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteLandlord, fmt.Sprint(landlord.ID), landlord.Name, nil)
	return nil
}

func (s *landlordService) UndeleteLandlord(ctx context.Context, id uint, actorID *uint) error {
	landlord, err := s.landlordRepo.FindByIDAny(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("landlord %d", id))
	}

	if !landlord.DeletedAt.Valid {
		return nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.landlordRepo.Restore(txCtx, landlord)
	})
	if err != nil {
		return fmt.Errorf("failed to restore landlord: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUndeleteLandlord, fmt.Sprint(landlord.ID), landlord.Name, nil)
	return nil
}

// --- Tenant implementation ---

type tenantService struct {
	tenantRepo repository.TenantRepository
	rentRepo   repository.RentRepository
	txManager  repository.TransactionManager
	audit      *AuditRecorder
}

func NewTenantService(
	tenantRepo repository.TenantRepository,
	rentRepo repository.RentRepository,
	txManager repository.TransactionManager,
	audit *AuditRecorder,
) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
		rentRepo:   rentRepo,
		txManager:  txManager,
		audit:      audit,
	}
}

func (s *tenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error) {
	if err := validEmail(req.Email); err != nil {
		return TenantResponse{}, err
	}

	tenant := &model.Tenant{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: toAddressModel(req.Address),
		UserID:  req.UserID,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return TenantResponse{}, apperr.FromDB(err, "create tenant")
	}
	tenant.AddressID = tenant.Address.ID

	return toTenantResponse(*tenant), nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, id uint, req UpdateTenantRequest) (TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return TenantResponse{}, apperr.FromDB(err, fmt.Sprintf("tenant %d", id))
	}

	if req.Name != nil {
		if *req.Name == "" {
			return TenantResponse{}, apperr.Validationf("name cannot be empty")
		}
		tenant.Name = *req.Name
	}
	if req.Email != nil {
		if err := validEmail(*req.Email); err != nil {
			return TenantResponse{}, err
		}
		tenant.Email = *req.Email
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Address != nil {
		addr := toAddressModel(*req.Address)
		addr.ID = tenant.AddressID
		addr.CreatedAt = tenant.Address.CreatedAt
		tenant.Address = addr
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return TenantResponse{}, fmt.Errorf("failed to update tenant: %w", err)
	}

	return toTenantResponse(*tenant), nil
}

func (s *tenantService) GetTenant(ctx context.Context, id uint) (TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return TenantResponse{}, apperr.FromDB(err, fmt.Sprintf("tenant %d", id))
	}
	return toTenantResponse(*tenant), nil
}

func (s *tenantService) ListTenants(ctx context.Context, search string, page, limit int) ([]TenantResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	tenants, total, err := s.tenantRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	res := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		res = append(res, toTenantResponse(t))
	}
	return res, total, nil
}

func (s *tenantService) DeleteTenant(ctx context.Context, id uint, asOf time.Time, actorID *uint) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("tenant %d", id))
	}

	ongoing, err := s.rentRepo.CountOngoingByTenant(ctx, tenant.ID, asOf)
	if err != nil {
		return fmt.Errorf("failed to count ongoing rents: %w", err)
	}
	if ongoing > 0 {
		return apperr.Validationf("tenant %d still has %d ongoing rents", tenant.ID, ongoing)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.tenantRepo.SoftDelete(txCtx, tenant)
	})
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteTenant, fmt.Sprint(tenant.ID), tenant.Name, nil)
	return nil
}

func (s *tenantService) UndeleteTenant(ctx context.Context, id uint, actorID *uint) error {
	tenant, err := s.tenantRepo.FindByIDAny(ctx, id)
	if err != nil {
		return apperr.FromDB(err, fmt.Sprintf("tenant %d", id))
	}

	if !tenant.DeletedAt.Valid {
		return nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.tenantRepo.Restore(txCtx, tenant)
	})
	if err != nil {
		return fmt.Errorf("failed to restore tenant: %w", err)
	}

	s.audit.Record(ctx, actorID, model.ActionUndeleteTenant, fmt.Sprint(tenant.ID), tenant.Name, nil)
	return nil
}

// --- Mapping ---

func toLandlordResponse(l model.Landlord) LandlordResponse {
	return LandlordResponse{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		BankAccount: l.BankAccount,
		Address:     toAddressResponse(l.Address),
		UserID:      l.UserID,
		IsDeleted:   l.DeletedAt.Valid,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}

func toTenantResponse(t model.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		Address:   toAddressResponse(t.Address),
		UserID:    t.UserID,
		IsDeleted: t.DeletedAt.Valid,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}
