package quote

import (
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

// Per-CBM and flat charge bases in local currency. The 1.1 factor is the
// 10% VAT applied to the flat service fees.
var (
	thcRatePerCBM      = decimal.NewFromInt(6500)
	cfsRatePerCBM      = decimal.NewFromInt(6500)
	wharfageRatePerCBM = decimal.NewFromInt(210)
	documentFeeBase    = decimal.NewFromInt(35000)
	handlingFeeBase    = decimal.NewFromInt(30000)
	customsFeeBase     = decimal.NewFromInt(30000)
	truckingFeeBase    = decimal.NewFromInt(150000)
	vatFactor          = decimal.NewFromFloat(1.1)
	amsFlatFee         = decimal.NewFromInt(30)
)

// DomesticExpense is the origin-side charge breakdown in foreign currency,
// except the AMS fee which is already foreign-denominated.
type DomesticExpense struct {
	THC              decimal.Decimal
	CFSCharge        decimal.Decimal
	Wharfage         decimal.Decimal
	DocumentFee      decimal.Decimal
	HandlingFee      decimal.Decimal
	CustomsClearance decimal.Decimal
	DomesticTrucking decimal.Decimal
	AMSFee           decimal.Decimal
	Total            decimal.Decimal
}

// CalculateDomesticExpense converts the fixed-formula local charges into
// foreign currency. Every converted charge is divided by the rate and
// rounded half-up to 2 places at the point of division; re-ordering the
// divisions changes results by rounding.
func CalculateDomesticExpense(totalCBM decimal.Decimal, rate int) (DomesticExpense, error) {
	if rate <= 0 {
		return DomesticExpense{}, apperr.InvalidInput("EXCHANGE401", "exchange rate must be positive")
	}

	exchangeRate := decimal.NewFromInt(int64(rate))

	expense := DomesticExpense{
		THC:              totalCBM.Mul(thcRatePerCBM).DivRound(exchangeRate, 2),
		CFSCharge:        totalCBM.Mul(cfsRatePerCBM).DivRound(exchangeRate, 2),
		Wharfage:         totalCBM.Mul(wharfageRatePerCBM).DivRound(exchangeRate, 2),
		DocumentFee:      documentFeeBase.Mul(vatFactor).DivRound(exchangeRate, 2),
		HandlingFee:      handlingFeeBase.Mul(vatFactor).DivRound(exchangeRate, 2),
		CustomsClearance: customsFeeBase.Mul(vatFactor).DivRound(exchangeRate, 2),
		DomesticTrucking: truckingFeeBase.Mul(vatFactor).DivRound(exchangeRate, 2),
		AMSFee:           amsFlatFee,
	}

	expense.Total = expense.THC.
		Add(expense.CFSCharge).
		Add(expense.Wharfage).
		Add(expense.DocumentFee).
		Add(expense.HandlingFee).
		Add(expense.CustomsClearance).
		Add(expense.DomesticTrucking).
		Add(expense.AMSFee)

	return expense, nil
}
