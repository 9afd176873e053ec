package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/phrazzld/relay-api/internal/api"
	"github.com/phrazzld/relay-api/internal/config"
	"github.com/phrazzld/relay-api/internal/platform/memory"
	"github.com/phrazzld/relay-api/internal/platform/metrics"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/phrazzld/relay-api/internal/server"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  *sysinfo.Runtime

	// Stores
	userStore    *memory.UserStore
	fileStore    *memory.FileStore
	messageStore *memory.MessageStore

	metrics *metrics.Recorder
	routes  []api.Route

	// signals receives SIGINT and SIGTERM once Run has started.
	signals chan os.Signal

	// ready is closed once the listener is bound; server is set by then.
	ready  chan struct{}
	server *server.Server
}

// newApplication creates the stores, seeds them with sample data and builds
// the dispatch table.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:       cfg,
		logger:       logger,
		clock:        sysinfo.NewRuntime(),
		userStore:    memory.NewUserStore(logger),
		fileStore:    memory.NewFileStore(logger),
		messageStore: memory.NewMessageStore(logger),
		metrics:      metrics.NewRecorder(),
		signals:      make(chan os.Signal, 2),
		ready:        make(chan struct{}),
	}

	if err := memory.Seed(ctx, app.userStore, app.fileStore, app.messageStore); err != nil {
		return nil, fmt.Errorf("failed to seed stores: %w", err)
	}

	routes, err := api.DefaultRoutes(app.dependencies())
	if err != nil {
		return nil, fmt.Errorf("failed to build routes: %w", err)
	}
	app.routes = routes

	logger.Info("application initialized", "routes", len(routes))
	return app, nil
}

func (app *application) dependencies() api.Dependencies {
	return api.Dependencies{
		Config:   app.config,
		Logger:   app.logger,
		Clock:    app.clock,
		Metrics:  app.metrics,
		Users:    app.userStore,
		Files:    app.fileStore,
		Messages: app.messageStore,
	}
}

// Run serves the gateway until ctx is canceled or a termination signal
// arrives, then drains in-flight requests.
func (app *application) Run(ctx context.Context) error {
	handler, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	stop := app.notifySignals()
	defer stop()

	return app.startHTTPServer(ctx, handler)
}

// logStartupReport logs where the gateway listens and what it serves.
func (app *application) logStartupReport(srv *server.Server) {
	port := app.config.Server.Port
	if tcp, ok := srv.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}

	app.logger.Info("server started",
		"url", fmt.Sprintf("http://localhost:%d", port),
		"started_at", sysinfo.Timestamp(app.clock.Started()),
		"environment", app.config.Server.Environment,
		"endpoints", api.Endpoints(app.routes))
}

// cleanup releases application resources after the server has closed.
func (app *application) cleanup() {
	app.logger.Info("application shutdown completed")
}
