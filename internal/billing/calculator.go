// Package billing derives an invoice draft from two consecutive meter states
// and the rate in force when the later one was captured. Everything here is a
// pure function over already-loaded values: no clock, no I/O, no mutation of
// its inputs, so identical inputs always yield identical drafts.
package billing

import (
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
	"rentalhub/pkg/apperr"
)

var hundred = decimal.NewFromInt(100)

// Line is one utility category on the draft: the consumption delta between
// the bounding states and the money derived from it.
type Line struct {
	Category    model.UtilityCategory `json:"category"`
	Consumption decimal.Decimal       `json:"consumption"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	VATPercent  decimal.Decimal       `json:"vat_percent"`
	Net         decimal.Decimal       `json:"net"`
	VATAmount   decimal.Decimal       `json:"vat_amount"`
}

// Charge is a fixed amount (subscription or flat rent) with its VAT.
type Charge struct {
	Net       decimal.Decimal `json:"net"`
	VATAmount decimal.Decimal `json:"vat_amount"`
}

// Draft is the computed bill before persistence. It carries every
// per-category figure discretely so the stored invoice is self-describing
// without ever re-reading the Rate.
type Draft struct {
	Lines []Line `json:"lines"` // applicable categories only, in display order

	GasSubscription    Charge `json:"gas_subscription"`
	EnergySubscription Charge `json:"energy_subscription"`
	HeatSubscription   Charge `json:"heat_subscription"`

	LandlordRent   Charge          `json:"landlord_rent"`
	HousingRent    Charge          `json:"housing_rent"`
	RentVATPercent decimal.Decimal `json:"rent_vat_percent"`

	Total decimal.Decimal `json:"total"`
}

// Line returns the draft line for a category, if present.
func (d *Draft) Line(c model.UtilityCategory) (Line, bool) {
	for _, l := range d.Lines {
		if l.Category == c {
			return l, true
		}
	}
	return Line{}, false
}

// Compute builds the invoice draft for the period between prev and cur.
// prev must be the immediate predecessor of cur in the rent's ledger and
// rate the price list in force at cur's capture time; both are the caller's
// responsibility. Consumption is re-checked for monotonicity even though the
// ledger already enforces it on append.
func Compute(prev, cur *model.MeterState, rate *model.Rate, flags model.UtilityFlags) (Draft, error) {
	draft := Draft{RentVATPercent: rate.RentVAT}
	total := decimal.Zero

	for _, cat := range model.AllUtilities {
		if !flags.Has(cat) {
			continue
		}

		curVal, ok := cur.Register(cat)
		if !ok {
			return Draft{}, apperr.Validationf("state %d has no %s reading", cur.ID, cat)
		}
		prevVal, ok := prev.Register(cat)
		if !ok {
			return Draft{}, apperr.Validationf("state %d has no %s reading", prev.ID, cat)
		}

		consumption := curVal.Sub(prevVal)
		if consumption.IsNegative() {
			return Draft{}, apperr.Validationf("negative %s consumption: %s -> %s", cat, prevVal, curVal)
		}

		price, ok := rate.UnitPrice(cat)
		if !ok {
			return Draft{}, apperr.Validationf("rate %d has no %s price", rate.ID, cat)
		}

		line := moneyLine(cat, consumption, price, rate.VAT(cat))
		draft.Lines = append(draft.Lines, line)
		total = total.Add(line.Net).Add(line.VATAmount)
	}

	// Fixed subscriptions are charged once per invoice regardless of
	// consumption, each with its own category VAT.
	if flags.HasGas && rate.GasSubscription.Valid {
		draft.GasSubscription = charge(rate.GasSubscription.Decimal, rate.GasVAT)
		total = total.Add(draft.GasSubscription.Net).Add(draft.GasSubscription.VATAmount)
	}
	draft.EnergySubscription = charge(rate.EnergySubscription, rate.EnergyVAT)
	total = total.Add(draft.EnergySubscription.Net).Add(draft.EnergySubscription.VATAmount)
	if flags.HasHeat && rate.HeatSubscription.Valid {
		draft.HeatSubscription = charge(rate.HeatSubscription.Decimal, rate.HeatVAT)
		total = total.Add(draft.HeatSubscription.Net).Add(draft.HeatSubscription.VATAmount)
	}

	// Flat rents do not depend on any meter.
	draft.LandlordRent = charge(rate.LandlordRent, rate.RentVAT)
	draft.HousingRent = charge(rate.HousingRent, rate.RentVAT)
	total = total.Add(draft.LandlordRent.Net).Add(draft.LandlordRent.VATAmount)
	total = total.Add(draft.HousingRent.Net).Add(draft.HousingRent.VATAmount)

	draft.Total = total
	return draft, nil
}

// moneyLine rounds with banker's rounding to the currency's two minor digits
// at each money step, so repeated computation never drifts.
func moneyLine(cat model.UtilityCategory, consumption, price, vatPercent decimal.Decimal) Line {
	net := consumption.Mul(price).RoundBank(2)
	return Line{
		Category:    cat,
		Consumption: consumption,
		UnitPrice:   price,
		VATPercent:  vatPercent,
		Net:         net,
		VATAmount:   net.Mul(vatPercent).Div(hundred).RoundBank(2),
	}
}

func charge(amount, vatPercent decimal.Decimal) Charge {
	net := amount.RoundBank(2)
	return Charge{
		Net:       net,
		VATAmount: net.Mul(vatPercent).Div(hundred).RoundBank(2),
	}
}
