package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// runServices запускает HTTP-сервер и планировщик, блокируется до
// отмены контекста, затем аккуратно гасит зависимости
func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.Log.Info("http server starting", "addr", deps.HTTPServer.Addr)
		if err := deps.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return deps.Scheduler.Start(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		a.Log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("http server shutdown failed", "error", err)
		}

		if deps.Producer != nil {
			if err := deps.Producer.Close(); err != nil {
				a.Log.Error("kafka producer close failed", "error", err)
			}
		}

		if err := deps.Cache.Close(); err != nil {
			a.Log.Error("cache close failed", "error", err)
		}

		if err := deps.DB.Close(); err != nil {
			a.Log.Error("database close failed", "error", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	a.Log.Info("application stopped")
	return nil
}
