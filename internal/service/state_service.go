package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/notify"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// RecordStateRequest appends one meter snapshot to a rent's ledger. Register
// values are decimal strings; optional utilities are left empty when the
// property does not carry them.
type RecordStateRequest struct {
	RentID     uint   `json:"rent_id" binding:"required"`
	ColdWater  string `json:"cold_water" binding:"required"`
	Energy     string `json:"energy" binding:"required"`
	HotWater   string `json:"hot_water"`
	Gas        string `json:"gas"`
	Heat       string `json:"heat"`
	IsInitial  bool   `json:"is_initial"`
	RecordedAt string `json:"recorded_at"` // RFC3339, empty = now
}

type StateResponse struct {
	ID          uint    `json:"id"`
	RentID      uint    `json:"rent_id"`
	Seq         int     `json:"seq"`
	ColdWater   string  `json:"cold_water"`
	Energy      string  `json:"energy"`
	HotWater    *string `json:"hot_water"`
	Gas         *string `json:"gas"`
	Heat        *string `json:"heat"`
	IsInitial   bool    `json:"is_initial"`
	IsConfirmed bool    `json:"is_confirmed"`
	RecordedAt  string  `json:"recorded_at"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

// MeterStateService is the append-only state ledger. Appends for the same
// rent are serialized by the unique (rent_id, seq) index: both racers compute
// the same next Seq inside their transactions and the loser surfaces
// ErrConflict for the caller to retry.
type MeterStateService interface {
	RecordState(ctx context.Context, req RecordStateRequest, actorID *uint) (StateResponse, error)
	ConfirmState(ctx context.Context, id uint, actorID *uint) (StateResponse, error)
	GetState(ctx context.Context, id uint) (StateResponse, error)
	// PreviousState returns the snapshot immediately preceding the given
	// one in its rent's ledger; ErrNotFound for the initial state.
	PreviousState(ctx context.Context, id uint) (StateResponse, error)
	ListStates(ctx context.Context, rentID uint, page, limit int) ([]StateResponse, int64, error)
}

type meterStateService struct {
	stateRepo    repository.MeterStateRepository
	rentRepo     repository.RentRepository
	propertyRepo repository.PropertyRepository
	txManager    repository.TransactionManager
	audit        *AuditRecorder
	hub          *notify.Hub
}

func NewMeterStateService(
	stateRepo repository.MeterStateRepository,
	rentRepo repository.RentRepository,
	propertyRepo repository.PropertyRepository,
	txManager repository.TransactionManager,
	audit *AuditRecorder,
	hub *notify.Hub,
) MeterStateService {
	return &meterStateService{
		stateRepo:    stateRepo,
		rentRepo:     rentRepo,
		propertyRepo: propertyRepo,
		txManager:    txManager,
		audit:        audit,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *meterStateService) RecordState(ctx context.Context, req RecordStateRequest, actorID *uint) (StateResponse, error) {
	rent, err := s.rentRepo.FindByID(ctx, req.RentID)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("rent %d", req.RentID))
	}

	property, err := s.propertyRepo.FindByID(ctx, rent.PropertyID)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("property %d", rent.PropertyID))
	}

	state, err := buildState(req, property.Flags())
	if err != nil {
		return StateResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		hasInitial, err := s.stateRepo.HasInitial(txCtx, rent.ID)
		if err != nil {
			return fmt.Errorf("failed to check initial state: %w", err)
		}
		if req.IsInitial && hasInitial {
			return apperr.Validationf("rent %d already has an initial state", rent.ID)
		}
		if !req.IsInitial && !hasInitial {
			return apperr.Validationf("rent %d has no initial state yet", rent.ID)
		}

		latest, err := s.stateRepo.FindLatest(txCtx, rent.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			state.Seq = 1
		case err != nil:
			return fmt.Errorf("failed to load latest state: %w", err)
		default:
			if err := checkMonotonic(latest, state); err != nil {
				return err
			}
			state.Seq = latest.Seq + 1
		}

		// A concurrent append that won the race makes this a duplicate
		// (rent_id, seq) key, reported as a conflict to retry.
		if err := s.stateRepo.Create(txCtx, state); err != nil {
			return apperr.FromDB(err, fmt.Sprintf("append state for rent %d", rent.ID))
		}
		return nil
	})
	if err != nil {
		return StateResponse{}, err
	}

	s.audit.Record(ctx, actorID, model.ActionRecordState, fmt.Sprint(state.ID),
		fmt.Sprintf("rent %d seq %d", rent.ID, state.Seq), req)
	s.hub.Publish(notify.Event{Type: notify.EventStateRecorded, RentID: rent.ID, EntityID: state.ID})

	return toStateResponse(*state), nil
}

func (s *meterStateService) ConfirmState(ctx context.Context, id uint, actorID *uint) (StateResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, id)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("state %d", id))
	}

	// Confirming twice is a no-op success.
	if !state.IsConfirmed {
		if err := s.stateRepo.SetConfirmed(ctx, state.ID); err != nil {
			return StateResponse{}, fmt.Errorf("failed to confirm state: %w", err)
		}
		state.IsConfirmed = true

		s.audit.Record(ctx, actorID, model.ActionConfirmState, fmt.Sprint(state.ID),
			fmt.Sprintf("rent %d seq %d", state.RentID, state.Seq), nil)
		s.hub.Publish(notify.Event{Type: notify.EventStateConfirmed, RentID: state.RentID, EntityID: state.ID})
	}

	return toStateResponse(*state), nil
}

func (s *meterStateService) GetState(ctx context.Context, id uint) (StateResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, id)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("state %d", id))
	}
	return toStateResponse(*state), nil
}

func (s *meterStateService) PreviousState(ctx context.Context, id uint) (StateResponse, error) {
	state, err := s.stateRepo.FindByID(ctx, id)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("state %d", id))
	}
	if state.IsInitial {
		return StateResponse{}, apperr.NotFoundf("state %d is the initial state", id)
	}

	prev, err := s.stateRepo.FindBySeq(ctx, state.RentID, state.Seq-1)
	if err != nil {
		return StateResponse{}, apperr.FromDB(err, fmt.Sprintf("predecessor of state %d", id))
	}
	return toStateResponse(*prev), nil
}

func (s *meterStateService) ListStates(ctx context.Context, rentID uint, page, limit int) ([]StateResponse, int64, error) {
	if _, err := s.rentRepo.FindByID(ctx, rentID); err != nil {
		return nil, 0, apperr.FromDB(err, fmt.Sprintf("rent %d", rentID))
	}

	states, total, err := s.stateRepo.ListByRent(ctx, rentID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch states: %w", err)
	}

	res := make([]StateResponse, 0, len(states))
	for _, st := range states {
		res = append(res, toStateResponse(st))
	}
	return res, total, nil
}

// --- Helpers ---

func buildState(req RecordStateRequest, flags model.UtilityFlags) (*model.MeterState, error) {
	state := &model.MeterState{RentID: req.RentID, IsInitial: req.IsInitial}

	var err error
	if state.ColdWater, err = parseDecimal("cold_water", req.ColdWater); err != nil {
		return nil, err
	}
	if state.Energy, err = parseDecimal("energy", req.Energy); err != nil {
		return nil, err
	}
	if state.HotWater, err = parseNullDecimal("hot_water", req.HotWater); err != nil {
		return nil, err
	}
	if state.Gas, err = parseNullDecimal("gas", req.Gas); err != nil {
		return nil, err
	}
	if state.Heat, err = parseNullDecimal("heat", req.Heat); err != nil {
		return nil, err
	}

	for _, check := range []struct {
		cat     model.UtilityCategory
		present bool
	}{
		{model.UtilityHotWater, state.HotWater.Valid},
		{model.UtilityGas, state.Gas.Valid},
		{model.UtilityHeat, state.Heat.Valid},
	} {
		if flags.Has(check.cat) && !check.present {
			return nil, apperr.Validationf("missing %s reading", check.cat)
		}
		if !flags.Has(check.cat) && check.present {
			return nil, apperr.Validationf("property does not meter %s", check.cat)
		}
	}

	if req.RecordedAt == "" {
		state.RecordedAt = time.Now().UTC()
	} else {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return nil, apperr.Validationf("invalid recorded_at (expected RFC3339)")
		}
		state.RecordedAt = t.UTC()
	}

	return state, nil
}

// checkMonotonic rejects any register running backward between consecutive
// snapshots. Meter replacement is not modeled; a replaced meter needs a new
// rent ledger.
func checkMonotonic(prev, next *model.MeterState) error {
	for _, cat := range model.AllUtilities {
		nextVal, ok := next.Register(cat)
		if !ok {
			continue
		}
		prevVal, ok := prev.Register(cat)
		if !ok {
			continue
		}
		if nextVal.LessThan(prevVal) {
			return apperr.Validationf("%s register decreased: %s -> %s", cat, prevVal, nextVal)
		}
	}
	return nil
}

func formatRegister(d decimal.Decimal) string {
	return d.StringFixed(4)
}

func toStateResponse(st model.MeterState) StateResponse {
	return StateResponse{
		ID:          st.ID,
		RentID:      st.RentID,
		Seq:         st.Seq,
		ColdWater:   formatRegister(st.ColdWater),
		Energy:      formatRegister(st.Energy),
		HotWater:    formatNullDecimal(st.HotWater, 4),
		Gas:         formatNullDecimal(st.Gas, 4),
		Heat:        formatNullDecimal(st.Heat, 4),
		IsInitial:   st.IsInitial,
		IsConfirmed: st.IsConfirmed,
		RecordedAt:  st.RecordedAt.Format(time.RFC3339),
		CreatedAt:   st.CreatedAt.Format(time.RFC3339),
	}
}
