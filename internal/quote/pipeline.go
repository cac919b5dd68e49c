package quote

import "github.com/shopspring/decimal"

// Breakdown is the immutable result of one full pipeline run.
type Breakdown struct {
	Base          []BaseInfo
	TotalCBM      decimal.Decimal
	TotalQuantity int
	TotalForeign  decimal.Decimal
	Domestic      DomesticExpense
	FOB           decimal.Decimal
	Oversea       OverseaExpense
	// TotalCost is (domestic total + oversea total) x rate, converted back
	// to local currency for storage.
	TotalCost decimal.Decimal
}

// ComputeCost runs the full quotation pipeline: normalization, domestic
// expenses, FOB derivation, oversea expenses, and the final conversion back
// to local currency. Pure; identical inputs yield identical output.
func ComputeCost(cargos []Cargo, rate int) (Breakdown, error) {
	base, err := NormalizeCargos(cargos, rate)
	if err != nil {
		return Breakdown{}, err
	}

	totalCBM := decimal.Zero
	totalForeign := decimal.Zero
	totalQuantity := 0
	for _, info := range base {
		totalCBM = totalCBM.Add(info.TotalCBM)
		totalForeign = totalForeign.Add(info.TotalForeign)
		totalQuantity += info.Quantity
	}

	domestic, err := CalculateDomesticExpense(totalCBM, rate)
	if err != nil {
		return Breakdown{}, err
	}

	fob, err := DeriveFOB(domestic, totalForeign, totalQuantity)
	if err != nil {
		return Breakdown{}, err
	}

	oversea := CalculateOverseaExpense(totalCBM, totalQuantity, fob)

	totalCost := domestic.Total.
		Add(oversea.Total).
		Mul(decimal.NewFromInt(int64(rate)))

	return Breakdown{
		Base:          base,
		TotalCBM:      totalCBM,
		TotalQuantity: totalQuantity,
		TotalForeign:  totalForeign,
		Domestic:      domestic,
		FOB:           fob,
		Oversea:       oversea,
		TotalCost:     totalCost,
	}, nil
}
