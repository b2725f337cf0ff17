package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalhub/internal/billing"
	"rentalhub/internal/model"
	"rentalhub/internal/notify"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"gorm.io/gorm"
)

// --- DTOs ---

type InvoiceLineResponse struct {
	Applicable  bool   `json:"applicable"`
	Consumption string `json:"consumption"`
	UnitPrice   string `json:"unit_price"`
	VATPercent  string `json:"vat_percent"`
	Net         string `json:"net"`
	VATAmount   string `json:"vat_amount"`
	Gross       string `json:"gross"`
}

type InvoiceResponse struct {
	ID           uint   `json:"id"`
	InvoiceNo    string `json:"invoice_no"`
	RentID       uint   `json:"rent_id"`
	MeterStateID uint   `json:"meter_state_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`

	Lines map[string]InvoiceLineResponse `json:"lines"`

	GasSubscriptionNet    string `json:"gas_subscription_net"`
	GasSubscriptionVAT    string `json:"gas_subscription_vat"`
	EnergySubscriptionNet string `json:"energy_subscription_net"`
	EnergySubscriptionVAT string `json:"energy_subscription_vat"`
	HeatSubscriptionNet   string `json:"heat_subscription_net"`
	HeatSubscriptionVAT   string `json:"heat_subscription_vat"`

	LandlordRent    string `json:"landlord_rent"`
	LandlordRentVAT string `json:"landlord_rent_vat"`
	HousingRent     string `json:"housing_rent"`
	HousingRentVAT  string `json:"housing_rent_vat"`
	RentVATPercent  string `json:"rent_vat_percent"`

	Total string `json:"total"`

	IsDistributed bool    `json:"is_distributed"`
	DistributedAt *string `json:"distributed_at"`
	DocumentName  string  `json:"document_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	// GenerateInvoice bills the period between the given state and its
	// immediate predecessor, using the rate in force when the state was
	// captured. At most one invoice exists per state.
	GenerateInvoice(ctx context.Context, stateID uint, actorID *uint) (InvoiceResponse, error)
	DistributeInvoice(ctx context.Context, id uint, actorID *uint) (InvoiceResponse, error)
	AttachDocument(ctx context.Context, id uint, name string, data []byte) (InvoiceResponse, error)
	GetDocument(ctx context.Context, id uint) (name string, data []byte, err error)
	GetInvoice(ctx context.Context, id uint) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	stateRepo    repository.MeterStateRepository
	rentRepo     repository.RentRepository
	propertyRepo repository.PropertyRepository
	rateRepo     repository.RateRepository
	txManager    repository.TransactionManager
	audit        *AuditRecorder
	hub          *notify.Hub
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	stateRepo repository.MeterStateRepository,
	rentRepo repository.RentRepository,
	propertyRepo repository.PropertyRepository,
	rateRepo repository.RateRepository,
	txManager repository.TransactionManager,
	audit *AuditRecorder,
	hub *notify.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		stateRepo:    stateRepo,
		rentRepo:     rentRepo,
		propertyRepo: propertyRepo,
		rateRepo:     rateRepo,
		txManager:    txManager,
		audit:        audit,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *invoiceService) GenerateInvoice(ctx context.Context, stateID uint, actorID *uint) (InvoiceResponse, error) {
	cur, err := s.stateRepo.FindByID(ctx, stateID)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("state %d", stateID))
	}
	if cur.IsInitial {
		return InvoiceResponse{}, apperr.Validationf("state %d is the initial state and cannot be billed", stateID)
	}

	if _, err := s.invoiceRepo.FindByStateID(ctx, cur.ID); err == nil {
		return InvoiceResponse{}, apperr.Validationf("state %d is already invoiced", stateID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvoiceResponse{}, fmt.Errorf("failed to check existing invoice: %w", err)
	}

	prev, err := s.stateRepo.FindBySeq(ctx, cur.RentID, cur.Seq-1)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("predecessor of state %d", stateID))
	}

	rent, err := s.rentRepo.FindByIDAny(ctx, cur.RentID)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("rent %d", cur.RentID))
	}

	property, err := s.propertyRepo.FindByIDAny(ctx, rent.PropertyID)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("property %d", rent.PropertyID))
	}

	// Invariant: prices are the ones in force when the reading was taken,
	// never the ones in force now. Effective ranges have date granularity,
	// so the capture timestamp is reduced to its UTC calendar day first:
	// a reading at noon on a rate's last effective day still falls inside
	// the range.
	capturedOn := toUTCDate(cur.RecordedAt)
	rate, err := s.rateRepo.FindActiveAt(ctx, property.ID, capturedOn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, apperr.Validationf("no rate in force for property %d on %s",
				property.ID, capturedOn.Format(dateLayout))
		}
		return InvoiceResponse{}, fmt.Errorf("failed to resolve rate: %w", err)
	}

	draft, err := billing.Compute(prev, cur, rate, property.Flags())
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice := draftToInvoice(draft, rent.ID, cur, prev)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		no, err := s.generateInvoiceNo(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}
		invoice.InvoiceNo = no

		// The unique meter_state_id index turns a concurrent duplicate
		// into a conflict instead of a double bill.
		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return apperr.FromDB(err, fmt.Sprintf("invoice for state %d", cur.ID))
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.audit.Record(ctx, actorID, model.ActionGenerateInvoice, fmt.Sprint(invoice.ID),
		invoice.InvoiceNo, map[string]uint{"rent_id": rent.ID, "state_id": cur.ID})
	s.hub.Publish(notify.Event{Type: notify.EventInvoiceIssued, RentID: rent.ID, EntityID: invoice.ID})

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) DistributeInvoice(ctx context.Context, id uint, actorID *uint) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("invoice %d", id))
	}

	// Re-distributing is a no-op success.
	if !invoice.IsDistributed {
		now := time.Now().UTC()
		invoice.IsDistributed = true
		invoice.DistributedAt = &now

		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to update invoice: %w", err)
		}

		s.audit.Record(ctx, actorID, model.ActionDistributeInvoice, fmt.Sprint(invoice.ID), invoice.InvoiceNo, nil)
		s.hub.Publish(notify.Event{Type: notify.EventInvoiceDistributed, RentID: invoice.RentID, EntityID: invoice.ID})
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) AttachDocument(ctx context.Context, id uint, name string, data []byte) (InvoiceResponse, error) {
	if name == "" || len(data) == 0 {
		return InvoiceResponse{}, apperr.Validationf("document name and content are required")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("invoice %d", id))
	}

	invoice.DocumentName = name
	invoice.Document = data
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to store document: %w", err)
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) GetDocument(ctx context.Context, id uint) (string, []byte, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return "", nil, apperr.FromDB(err, fmt.Sprintf("invoice %d", id))
	}
	if invoice.DocumentName == "" {
		return "", nil, apperr.NotFoundf("invoice %d has no document", id)
	}
	return invoice.DocumentName, invoice.Document, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uint) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, apperr.FromDB(err, fmt.Sprintf("invoice %d", id))
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		res = append(res, toInvoiceResponse(inv))
	}
	return res, total, nil
}

func (s *invoiceService) generateInvoiceNo(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "RINV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func draftToInvoice(draft billing.Draft, rentID uint, cur, prev *model.MeterState) *model.Invoice {
	invoice := &model.Invoice{
		RentID:       rentID,
		MeterStateID: cur.ID,
		PeriodStart:  prev.RecordedAt,
		PeriodEnd:    cur.RecordedAt,

		GasSubscriptionNet:    draft.GasSubscription.Net,
		GasSubscriptionVAT:    draft.GasSubscription.VATAmount,
		EnergySubscriptionNet: draft.EnergySubscription.Net,
		EnergySubscriptionVAT: draft.EnergySubscription.VATAmount,
		HeatSubscriptionNet:   draft.HeatSubscription.Net,
		HeatSubscriptionVAT:   draft.HeatSubscription.VATAmount,

		LandlordRent:    draft.LandlordRent.Net,
		LandlordRentVAT: draft.LandlordRent.VATAmount,
		HousingRent:     draft.HousingRent.Net,
		HousingRentVAT:  draft.HousingRent.VATAmount,
		RentVATPercent:  draft.RentVATPercent,

		Total: draft.Total,
	}

	for _, line := range draft.Lines {
		snap := model.InvoiceLine{
			Applicable:  true,
			Consumption: line.Consumption,
			UnitPrice:   line.UnitPrice,
			VATPercent:  line.VATPercent,
			Net:         line.Net,
			VATAmount:   line.VATAmount,
		}
		switch line.Category {
		case model.UtilityColdWater:
			invoice.ColdWater = snap
		case model.UtilityHotWater:
			invoice.HotWater = snap
		case model.UtilityGas:
			invoice.Gas = snap
		case model.UtilityEnergy:
			invoice.Energy = snap
		case model.UtilityHeat:
			invoice.Heat = snap
		}
	}

	return invoice
}

func toLineResponse(l model.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		Applicable:  l.Applicable,
		Consumption: l.Consumption.StringFixed(4),
		UnitPrice:   l.UnitPrice.StringFixed(4),
		VATPercent:  l.VATPercent.StringFixed(2),
		Net:         l.Net.StringFixed(2),
		VATAmount:   l.VATAmount.StringFixed(2),
		Gross:       l.Gross().StringFixed(2),
	}
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:           inv.ID,
		InvoiceNo:    inv.InvoiceNo,
		RentID:       inv.RentID,
		MeterStateID: inv.MeterStateID,
		PeriodStart:  inv.PeriodStart.Format(time.RFC3339),
		PeriodEnd:    inv.PeriodEnd.Format(time.RFC3339),

		Lines: map[string]InvoiceLineResponse{},

		GasSubscriptionNet:    inv.GasSubscriptionNet.StringFixed(2),
		GasSubscriptionVAT:    inv.GasSubscriptionVAT.StringFixed(2),
		EnergySubscriptionNet: inv.EnergySubscriptionNet.StringFixed(2),
		EnergySubscriptionVAT: inv.EnergySubscriptionVAT.StringFixed(2),
		HeatSubscriptionNet:   inv.HeatSubscriptionNet.StringFixed(2),
		HeatSubscriptionVAT:   inv.HeatSubscriptionVAT.StringFixed(2),

		LandlordRent:    inv.LandlordRent.StringFixed(2),
		LandlordRentVAT: inv.LandlordRentVAT.StringFixed(2),
		HousingRent:     inv.HousingRent.StringFixed(2),
		HousingRentVAT:  inv.HousingRentVAT.StringFixed(2),
		RentVATPercent:  inv.RentVATPercent.StringFixed(2),

		Total: inv.Total.StringFixed(2),

		IsDistributed: inv.IsDistributed,
		DocumentName:  inv.DocumentName,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}

	for _, cat := range model.AllUtilities {
		if line := inv.Line(cat); line.Applicable {
			resp.Lines[string(cat)] = toLineResponse(line)
		}
	}
	if inv.DistributedAt != nil {
		s := inv.DistributedAt.Format(time.RFC3339)
		resp.DistributedAt = &s
	}

	return resp
}
