package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// Quote computes a shipper-side estimate for a cargo set and prints the
// full charge breakdown.
func (a *App) Quote(ctx context.Context, opts QuoteOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot load cargos")
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc := a.newService(store)

	breakdown, rate, err := svc.EstimateCost(ctx, opts.CargoIDs, opts.RateOverride)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Exchange rate\t%d\n", rate)
	fmt.Fprintf(writer, "Total CBM\t%s\n", breakdown.TotalCBM.String())
	fmt.Fprintf(writer, "Total quantity\t%d\n", breakdown.TotalQuantity)
	fmt.Fprintln(writer, "")

	fmt.Fprintln(writer, "Domestic charge\tAmount")
	fmt.Fprintf(writer, "THC\t%s\n", formatDecimal(breakdown.Domestic.THC, 2))
	fmt.Fprintf(writer, "CFS charge\t%s\n", formatDecimal(breakdown.Domestic.CFSCharge, 2))
	fmt.Fprintf(writer, "Wharfage\t%s\n", formatDecimal(breakdown.Domestic.Wharfage, 2))
	fmt.Fprintf(writer, "Document fee\t%s\n", formatDecimal(breakdown.Domestic.DocumentFee, 2))
	fmt.Fprintf(writer, "Handling fee\t%s\n", formatDecimal(breakdown.Domestic.HandlingFee, 2))
	fmt.Fprintf(writer, "Customs clearance\t%s\n", formatDecimal(breakdown.Domestic.CustomsClearance, 2))
	fmt.Fprintf(writer, "Domestic trucking\t%s\n", formatDecimal(breakdown.Domestic.DomesticTrucking, 2))
	fmt.Fprintf(writer, "AMS fee\t%s\n", formatDecimal(breakdown.Domestic.AMSFee, 2))
	fmt.Fprintf(writer, "Domestic total\t%s\n", formatDecimal(breakdown.Domestic.Total, 2))
	fmt.Fprintln(writer, "")

	fmt.Fprintf(writer, "FOB per unit\t%s\n", formatDecimal(breakdown.FOB, 2))
	fmt.Fprintln(writer, "")

	fmt.Fprintln(writer, "Oversea charge\tAmount")
	fmt.Fprintf(writer, "Freight cost\t%s\n", formatDecimal(breakdown.Oversea.FreightCost, 2))
	fmt.Fprintf(writer, "Cargo insurance\t%s\n", formatDecimal(breakdown.Oversea.CargoInsurance, 4))
	fmt.Fprintf(writer, "Inspection fee\t%s\n", formatDecimal(breakdown.Oversea.InspectionFee, 2))
	fmt.Fprintf(writer, "Oversea trucking\t%s\n", formatDecimal(breakdown.Oversea.OverseaTrucking, 2))
	fmt.Fprintf(writer, "Oversea total\t%s\n", formatDecimal(breakdown.Oversea.Total, 4))
	fmt.Fprintln(writer, "")

	fmt.Fprintf(writer, "Total cost\t%s\n", formatDecimal(breakdown.TotalCost, 2))
	return writer.Flush()
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
