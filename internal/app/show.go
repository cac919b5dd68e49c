package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"freight-quoter/internal/storage"
)

// Show prints recent quotation rows, or one lineage's forwarder quotes
// with the cheapest highlighted.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show quotations")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.LineageKey != "" {
		return a.showLineage(ctx, store, opts.LineageKey)
	}

	quotations, err := store.ListRecentQuotations(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(quotations) == 0 {
		fmt.Fprintln(os.Stdout, "no quotations found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Created (UTC)\tLineage\tStatus\tConsignor\tCargos\tTotal cost")
	for _, q := range quotations {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\n",
			q.CreatedAt.UTC().Format(time.RFC3339),
			q.LineageKey,
			q.Status,
			q.ConsignorID,
			len(q.Cost.CargoIDs),
			formatDecimal(q.Cost.TotalCost, 1),
		)
	}
	return writer.Flush()
}

func (a *App) showLineage(ctx context.Context, store *storage.Store, lineageKey string) error {
	svc := a.newService(store)

	quotations, err := store.ListQuotationsByLineageAndStatus(ctx, lineageKey, storage.StatusDetailInfo)
	if err != nil {
		return err
	}
	if len(quotations) == 0 {
		fmt.Fprintln(os.Stdout, "no forwarder quotes for this lineage")
		return nil
	}

	cheapest, err := svc.CheapestDetailed(ctx, lineageKey)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Quotation\tForwarder\tTHC\tCFS\tHandling\tCustoms\tTrucking\tTotal cost\t")
	for _, q := range quotations {
		marker := ""
		if q.ID == cheapest.ID {
			marker = "cheapest"
		}
		forwarder := "-"
		if q.ForwarderID != nil {
			forwarder = *q.ForwarderID
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			q.ID,
			forwarder,
			formatDecimal(q.Cost.Breakdown.THC, 0),
			formatDecimal(q.Cost.Breakdown.CFSCharge, 0),
			formatDecimal(q.Cost.Breakdown.HandlingFee, 0),
			formatDecimal(q.Cost.Breakdown.CustomsClearance, 0),
			formatDecimal(q.Cost.Breakdown.DomesticTrucking, 0),
			formatDecimal(q.Cost.TotalCost, 1),
			marker,
		)
	}
	return writer.Flush()
}
