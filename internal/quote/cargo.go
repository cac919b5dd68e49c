package quote

import (
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

// Cargo is the raw cargo record shape the pipeline consumes. Dimensions are
// taken as-is; unit validation is the caller's responsibility.
type Cargo struct {
	ID          string
	Value       decimal.Decimal
	Quantity    int
	UnitsPerBox int
	BoxWidth    decimal.Decimal
	BoxHeight   decimal.Decimal
	BoxDepth    decimal.Decimal
	Weight      decimal.Decimal
}

// BaseInfo is the per-cargo unit economics derived for one pipeline run.
// Never cached; recomputed fresh each time.
type BaseInfo struct {
	CargoID          string
	CargoValue       decimal.Decimal
	Quantity         int
	UnitsPerBox      int
	BoxCount         int
	UnitPriceForeign decimal.Decimal
	TotalForeign     decimal.Decimal
	CBMPerBox        decimal.Decimal
	TotalCBM         decimal.Decimal
}

// NormalizeCargos derives per-cargo unit economics at the given exchange
// rate. Output preserves input order.
//
// Box count is integer floor division: a quantity that is not a multiple of
// units-per-box drops the remainder from cost allocation. That matches the
// charge sheet this implements; do not round up here.
func NormalizeCargos(cargos []Cargo, rate int) ([]BaseInfo, error) {
	if rate <= 0 {
		return nil, apperr.InvalidInput("EXCHANGE401", "exchange rate must be positive")
	}

	exchangeRate := decimal.NewFromInt(int64(rate))

	infos := make([]BaseInfo, 0, len(cargos))
	for _, cargo := range cargos {
		if cargo.UnitsPerBox == 0 {
			return nil, apperr.InvalidInput("CARGO401", "units per box must not be zero")
		}

		boxCount := cargo.Quantity / cargo.UnitsPerBox
		unitPriceForeign := cargo.Value.DivRound(exchangeRate, 2)
		cbmPerBox := cargo.BoxWidth.Mul(cargo.BoxHeight).Mul(cargo.BoxDepth)

		infos = append(infos, BaseInfo{
			CargoID:          cargo.ID,
			CargoValue:       cargo.Value,
			Quantity:         cargo.Quantity,
			UnitsPerBox:      cargo.UnitsPerBox,
			BoxCount:         boxCount,
			UnitPriceForeign: unitPriceForeign,
			TotalForeign:     unitPriceForeign.Mul(decimal.NewFromInt(int64(cargo.Quantity))),
			CBMPerBox:        cbmPerBox,
			TotalCBM:         cbmPerBox.Mul(decimal.NewFromInt(int64(boxCount))),
		})
	}

	return infos, nil
}
