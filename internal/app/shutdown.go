package app

import (
	"context"

	"go.uber.org/zap"
)

// Shutdown stops components in dependency order and waits for
// background goroutines.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracePeriod)
	defer shutdownCancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if a.store != nil {
		err = a.store.Close()
		if err != nil {
			a.logger.Error("storage-close-error", zap.Error(err))
		}
	}

	a.corpus.Close()
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")
	return nil
}
