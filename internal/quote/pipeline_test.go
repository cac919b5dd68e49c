package quote

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

// fixtureCargo yields totalCBM=10, totalForeign=5000 at rate 1320.
func fixtureCargo() Cargo {
	return Cargo{
		ID:          "cargo-1",
		Value:       decimal.NewFromInt(6600),
		Quantity:    1000,
		UnitsPerBox: 100,
		BoxWidth:    decimal.NewFromInt(1),
		BoxHeight:   decimal.NewFromInt(1),
		BoxDepth:    decimal.NewFromInt(1),
		Weight:      decimal.NewFromInt(500),
	}
}

func mustEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.Cmp(decimal.RequireFromString(want)) != 0 {
		t.Fatalf("%s 期望 %s, 实际 %s", name, want, got.String())
	}
}

func TestNormalizeCargosBoxFloor(t *testing.T) {
	infos, err := NormalizeCargos([]Cargo{{
		ID:          "c",
		Value:       decimal.NewFromInt(1320),
		Quantity:    105,
		UnitsPerBox: 10,
		BoxWidth:    decimal.NewFromInt(1),
		BoxHeight:   decimal.NewFromInt(1),
		BoxDepth:    decimal.NewFromInt(1),
	}}, 1320)
	if err != nil {
		t.Fatalf("正常输入不应报错: %v", err)
	}
	if infos[0].BoxCount != 10 {
		t.Fatalf("105/10 的箱数应向下取整为 10, 实际 %d", infos[0].BoxCount)
	}
	mustEqual(t, "TotalCBM", infos[0].TotalCBM, "10")
}

func TestNormalizeCargosHalfUpRounding(t *testing.T) {
	// 7/3 = 2.333... 应保留两位并半数进位到 2.33
	infos, err := NormalizeCargos([]Cargo{{
		ID:          "c",
		Value:       decimal.NewFromInt(7),
		Quantity:    3,
		UnitsPerBox: 3,
		BoxWidth:    decimal.NewFromInt(1),
		BoxHeight:   decimal.NewFromInt(1),
		BoxDepth:    decimal.NewFromInt(1),
	}}, 3)
	if err != nil {
		t.Fatalf("正常输入不应报错: %v", err)
	}
	mustEqual(t, "UnitPriceForeign", infos[0].UnitPriceForeign, "2.33")
	mustEqual(t, "TotalForeign", infos[0].TotalForeign, "6.99")
}

func TestNormalizeCargosZeroUnitsPerBox(t *testing.T) {
	cargo := fixtureCargo()
	cargo.UnitsPerBox = 0
	if _, err := NormalizeCargos([]Cargo{cargo}, 1320); !apperr.IsKind(err, apperr.KindInvalidInput) {
		t.Fatalf("units per box 为零应返回输入错误, 实际 %v", err)
	}
}

func TestNormalizeCargosNonPositiveRate(t *testing.T) {
	if _, err := NormalizeCargos([]Cargo{fixtureCargo()}, 0); !apperr.IsKind(err, apperr.KindInvalidInput) {
		t.Fatalf("汇率为零应返回输入错误, 实际 %v", err)
	}
	if _, err := NormalizeCargos([]Cargo{fixtureCargo()}, -5); err == nil {
		t.Fatal("负汇率应报错")
	}
}

func TestCalculateDomesticExpenseFixture(t *testing.T) {
	expense, err := CalculateDomesticExpense(decimal.NewFromInt(10), 1320)
	if err != nil {
		t.Fatalf("国内费用计算不应报错: %v", err)
	}

	mustEqual(t, "THC", expense.THC, "49.24")
	mustEqual(t, "CFS", expense.CFSCharge, "49.24")
	mustEqual(t, "Wharfage", expense.Wharfage, "1.59")
	mustEqual(t, "DocumentFee", expense.DocumentFee, "29.17")
	mustEqual(t, "HandlingFee", expense.HandlingFee, "25.00")
	mustEqual(t, "CustomsClearance", expense.CustomsClearance, "25.00")
	mustEqual(t, "DomesticTrucking", expense.DomesticTrucking, "125.00")
	mustEqual(t, "AMSFee", expense.AMSFee, "30")
	mustEqual(t, "Total", expense.Total, "334.24")
}

func TestDeriveFOBExcludesAMS(t *testing.T) {
	expense, err := CalculateDomesticExpense(decimal.NewFromInt(10), 1320)
	if err != nil {
		t.Fatalf("国内费用计算不应报错: %v", err)
	}

	fob, err := DeriveFOB(expense, decimal.NewFromInt(5000), 1000)
	if err != nil {
		t.Fatalf("FOB 推导不应报错: %v", err)
	}
	// (334.24 - 30 + 5000) / 1000 = 5.30424 -> 5.30
	mustEqual(t, "FOB", fob, "5.30")
}

func TestDeriveFOBZeroQuantity(t *testing.T) {
	if _, err := DeriveFOB(DomesticExpense{}, decimal.Zero, 0); !apperr.IsKind(err, apperr.KindInvalidInput) {
		t.Fatalf("总数量为零应返回输入错误, 实际 %v", err)
	}
}

func TestCalculateOverseaExpenseFixture(t *testing.T) {
	expense := CalculateOverseaExpense(decimal.NewFromInt(10), 1000, decimal.RequireFromString("5.30"))

	mustEqual(t, "FreightCost", expense.FreightCost, "100")
	// 5.30 x 1.1 x 0.0004 x 1000, 保险项不做中间舍入
	mustEqual(t, "CargoInsurance", expense.CargoInsurance, "2.332")
	mustEqual(t, "InspectionFee", expense.InspectionFee, "250.00")
	mustEqual(t, "OverseaTrucking", expense.OverseaTrucking, "250.00")
	mustEqual(t, "Total", expense.Total, "602.332")
}

func TestComputeCostFixture(t *testing.T) {
	breakdown, err := ComputeCost([]Cargo{fixtureCargo()}, 1320)
	if err != nil {
		t.Fatalf("完整流水线不应报错: %v", err)
	}

	mustEqual(t, "TotalCBM", breakdown.TotalCBM, "10")
	mustEqual(t, "TotalForeign", breakdown.TotalForeign, "5000")
	if breakdown.TotalQuantity != 1000 {
		t.Fatalf("总数量应为 1000, 实际 %d", breakdown.TotalQuantity)
	}
	mustEqual(t, "Domestic.Total", breakdown.Domestic.Total, "334.24")
	mustEqual(t, "FOB", breakdown.FOB, "5.30")
	mustEqual(t, "Oversea.Total", breakdown.Oversea.Total, "602.332")
	// (334.24 + 602.332) x 1320
	mustEqual(t, "TotalCost", breakdown.TotalCost, "1236275.04")
}

func TestComputeCostDeterministic(t *testing.T) {
	cargos := []Cargo{fixtureCargo()}
	first, err := ComputeCost(cargos, 1320)
	if err != nil {
		t.Fatalf("第一次计算不应报错: %v", err)
	}
	second, err := ComputeCost(cargos, 1320)
	if err != nil {
		t.Fatalf("第二次计算不应报错: %v", err)
	}
	if first.TotalCost.String() != second.TotalCost.String() {
		t.Fatalf("相同输入应产出相同结果: %s vs %s", first.TotalCost, second.TotalCost)
	}
	if first.FOB.String() != second.FOB.String() {
		t.Fatalf("FOB 不稳定: %s vs %s", first.FOB, second.FOB)
	}
}

func TestComputeCostMultiCargoOrder(t *testing.T) {
	second := fixtureCargo()
	second.ID = "cargo-2"
	second.Quantity = 200
	second.UnitsPerBox = 50

	breakdown, err := ComputeCost([]Cargo{fixtureCargo(), second}, 1320)
	if err != nil {
		t.Fatalf("多货物流水线不应报错: %v", err)
	}
	if len(breakdown.Base) != 2 {
		t.Fatalf("每个货物应有一条基础信息, 实际 %d", len(breakdown.Base))
	}
	if breakdown.Base[0].CargoID != "cargo-1" || breakdown.Base[1].CargoID != "cargo-2" {
		t.Fatal("基础信息应保持输入顺序")
	}
	if breakdown.TotalQuantity != 1200 {
		t.Fatalf("总数量应为 1200, 实际 %d", breakdown.TotalQuantity)
	}
}

func TestErrorCodesStable(t *testing.T) {
	_, err := NormalizeCargos([]Cargo{{ID: "c", UnitsPerBox: 0, Quantity: 1}}, 1320)
	if !errors.Is(err, apperr.ErrInvalidCargoInput) {
		t.Fatalf("units per box 为零应命中 CARGO401, 实际 %v", err)
	}
}
