package storage

import (
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus is the 3-state quotation lifecycle. Transitions only ever
// append new rows; existing rows are never mutated.
type QuotationStatus string

const (
	// StatusRawSheet is the shipper-only initial estimate, no forwarder.
	StatusRawSheet QuotationStatus = "RAW_SHEET"
	// StatusDetailInfo is a forwarder-submitted concrete quote.
	StatusDetailInfo QuotationStatus = "DETAIL_INFO"
	// StatusPredictionSheet is a system-generated forward-looking recompute.
	StatusPredictionSheet QuotationStatus = "PREDICTION_SHEET"
)

// CanTransitionTo reports whether next is a valid successor status.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	switch s {
	case StatusRawSheet:
		return next == StatusDetailInfo
	case StatusDetailInfo:
		return next == StatusPredictionSheet
	default:
		return false
	}
}

// CargoRecord is one shipper-owned cargo item. Immutable once referenced by
// a persisted quotation.
type CargoRecord struct {
	ID           string
	ConsignorID  string
	Value        decimal.Decimal
	Quantity     int
	UnitsPerBox  int
	BoxWidth     decimal.Decimal
	BoxHeight    decimal.Decimal
	BoxDepth     decimal.Decimal
	Weight       decimal.Decimal
	ExportPortID int64
	ImportPortID int64
	CreatedAt    time.Time
}

// Port is a named origin/destination port.
type Port struct {
	ID   int64
	Name string
}

// Schedule is one sailing referenced by a quotation's freight field.
type Schedule struct {
	ID           int64
	Carrier      string
	ExportPortID int64
	ImportPortID int64
	ETD          time.Time
	ETA          time.Time
}

// PredictionPoint is one month of the freight-cost-index series.
// (Year, Month) is the unique key.
type PredictionPoint struct {
	Year             int
	Month            int
	FreightCostIndex int
}

// ChargeBreakdown is the per-charge view persisted with a quotation, used
// for cross-quotation comparison.
type ChargeBreakdown struct {
	THC              decimal.Decimal `json:"thc"`
	CFSCharge        decimal.Decimal `json:"cfs_charge"`
	Wharfage         decimal.Decimal `json:"wharfage"`
	DocumentFee      decimal.Decimal `json:"document_fee"`
	HandlingFee      decimal.Decimal `json:"handling_fee"`
	CustomsClearance decimal.Decimal `json:"customs_clearance"`
	DomesticTrucking decimal.Decimal `json:"domestic_trucking"`
	AMSFee           decimal.Decimal `json:"ams_fee"`
	FreightCost      decimal.Decimal `json:"freight_cost"`
	CargoInsurance   decimal.Decimal `json:"cargo_insurance"`
	InspectionFee    decimal.Decimal `json:"inspection_fee"`
	OverseaTrucking  decimal.Decimal `json:"oversea_trucking"`
}

// Cost binds a computed total to the cargo set it covers.
type Cost struct {
	CargoIDs  []string
	TotalCost decimal.Decimal
	Breakdown ChargeBreakdown
}

// Quotation is one immutable row of a lineage. Any recomputation creates a
// new row under the same lineage key.
type Quotation struct {
	ID          string
	LineageKey  string
	ConsignorID string
	ForwarderID *string
	Status      QuotationStatus
	ScheduleID  int64
	Cost        Cost
	CreatedAt   time.Time
}

// LineageLockKey folds a lineage key into the int64 space of postgres
// advisory locks.
func LineageLockKey(lineageKey string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(lineageKey))
	return int64(h.Sum64())
}
