package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"freight-quoter/internal/scheduler"
)

// Watch runs the periodic recommendation sweep until interrupted.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot watch")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToBucket,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	svc := a.newService(store)

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting recommendation watch")
	err = sched.Run(ctx, svc.Sweep)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("recommendation watch stopped")
	return nil
}
