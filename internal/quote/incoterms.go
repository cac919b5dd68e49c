package quote

import (
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

// DeriveFOB computes the per-unit FOB baseline from the domestic expenses
// and the aggregate foreign-currency cargo value. The AMS fee is excluded
// from the baseline; it is a destination manifest charge, not origin cost.
func DeriveFOB(domestic DomesticExpense, totalForeign decimal.Decimal, totalQuantity int) (decimal.Decimal, error) {
	if totalQuantity == 0 {
		return decimal.Decimal{}, apperr.InvalidInput("CARGO401", "total export quantity must not be zero")
	}

	return domestic.Total.
		Sub(domestic.AMSFee).
		Add(totalForeign).
		DivRound(decimal.NewFromInt(int64(totalQuantity)), 2), nil
}
