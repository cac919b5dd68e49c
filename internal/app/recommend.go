package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Recommend computes and prints the savings bundle for one lineage key.
func (a *App) Recommend(ctx context.Context, opts RecommendOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot recommend")
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc := a.newService(store)

	rec, err := svc.Recommend(ctx, opts.LineageKey)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Target month\t%s\n", rec.TargetMonth)
	fmt.Fprintf(writer, "Months ahead\t%d\n", rec.MonthsDifference)
	fmt.Fprintf(writer, "Index difference\t%d\n", rec.IndexDifference)
	fmt.Fprintf(writer, "Estimated cost\t%s\n", formatDecimal(rec.EstimatedCost, 2))
	fmt.Fprintf(writer, "Appended quotation\t%s\n", rec.Quotation.ID)
	if rec.IndexDifference <= 0 {
		fmt.Fprintln(writer, "Note\tcurrent month is already the cheapest; no savings available")
	}
	fmt.Fprintln(writer, "")

	if len(rec.CandidateSchedules) == 0 {
		fmt.Fprintln(writer, "no sailings found for the target month")
		return writer.Flush()
	}

	fmt.Fprintln(writer, "Schedule\tCarrier\tETD\tETA")
	for _, sched := range rec.CandidateSchedules {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n",
			sched.ID,
			sched.Carrier,
			sched.ETD.UTC().Format(time.DateOnly),
			sched.ETA.UTC().Format(time.DateOnly),
		)
	}

	return writer.Flush()
}
