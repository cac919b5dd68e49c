package quote

import "github.com/shopspring/decimal"

var (
	freightRatePerCBM  = decimal.NewFromInt(10)
	insuredValueFactor = decimal.NewFromFloat(1.1)
	insuranceRate      = decimal.NewFromFloat(0.0004)
	inspectionFlatFee  = decimal.RequireFromString("250.00")
	overseaTruckingFee = decimal.RequireFromString("250.00")
)

// OverseaExpense is the destination-side charge breakdown.
type OverseaExpense struct {
	FreightCost     decimal.Decimal
	CargoInsurance  decimal.Decimal
	InspectionFee   decimal.Decimal
	OverseaTrucking decimal.Decimal
	Total           decimal.Decimal
}

// CalculateOverseaExpense computes freight, insurance and flat destination
// charges. Insurance follows the 110%-insured-value convention at a fixed
// 0.04% rate and is not rounded; only divisions round in this pipeline.
//
// The freight term (CBM x 10) is not divided by the exchange rate, unlike
// every domestic charge. That asymmetry is the charge sheet as published;
// flagged for product clarification, not corrected here.
func CalculateOverseaExpense(totalCBM decimal.Decimal, totalQuantity int, fob decimal.Decimal) OverseaExpense {
	expense := OverseaExpense{
		FreightCost: totalCBM.Mul(freightRatePerCBM),
		CargoInsurance: fob.
			Mul(insuredValueFactor).
			Mul(insuranceRate).
			Mul(decimal.NewFromInt(int64(totalQuantity))),
		InspectionFee:   inspectionFlatFee,
		OverseaTrucking: overseaTruckingFee,
	}

	expense.Total = expense.FreightCost.
		Add(expense.CargoInsurance).
		Add(expense.InspectionFee).
		Add(expense.OverseaTrucking)

	return expense
}
