package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/phrazzld/relay-api/internal/server"
)

// notifySignals routes SIGINT and SIGTERM to app.signals until the returned
// function is called.
func (app *application) notifySignals() (stop func()) {
	signal.Notify(app.signals, syscall.SIGINT, syscall.SIGTERM)
	return func() { signal.Stop(app.signals) }
}

// startHTTPServer binds the listener, serves until a signal, ctx
// cancellation or a serve failure, and then shuts down gracefully.
func (app *application) startHTTPServer(ctx context.Context, handler http.Handler) error {
	srv := server.New(fmt.Sprintf(":%d", app.config.Server.Port), handler, app.logger)
	if err := srv.Listen(); err != nil {
		return err
	}
	app.server = srv
	close(app.ready)
	app.logStartupReport(srv)

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve()
	}()

	select {
	case sig := <-app.signals:
		app.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		app.logger.Info("context canceled, shutting down")
	case err := <-served:
		_ = srv.Shutdown(context.Background())
		if err != nil {
			return err
		}
		app.cleanup()
		return nil
	}

	stopIgnoring := app.ignoreRepeatedSignals()
	defer stopIgnoring()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn("shutdown deadline reached, in-flight requests were cut off",
			"timeout", app.config.Server.ShutdownTimeout.String(),
			"error", err)
	}
	if err := <-served; err != nil {
		app.logger.Error("server stopped with error", "error", err)
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")
	return nil
}

// ignoreRepeatedSignals logs and discards signals that arrive while the
// server is already closing.
func (app *application) ignoreRepeatedSignals() (stop func()) {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-app.signals:
				app.logger.Warn("signal ignored, shutdown already in progress", "signal", sig.String())
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
