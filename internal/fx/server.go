package fx

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/fx"

	"github.com/asemenov/chatground/internal/ai"
	"github.com/asemenov/chatground/internal/config"
	"github.com/asemenov/chatground/internal/core"
	"github.com/asemenov/chatground/internal/history"
	"github.com/asemenov/chatground/internal/ratelimit"
	"github.com/asemenov/chatground/internal/server"
	"github.com/asemenov/chatground/internal/worker"
)

// ServerModule starts the HTTP server and maintenance worker
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartServer,
		StartCleanupWorker,
	),
)

// ServerParams groups dependencies for starting the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Core      *core.AssistantCore
	Store     history.Store
	Provider  ai.Provider
	Limiter   *ratelimit.Limiter
	Config    config.Config
}

// StartServer starts the REST server with lifecycle management
func StartServer(p ServerParams) {
	restHandler := server.CreateRESTHandler(server.Services{
		Core:     p.Core,
		Store:    p.Store,
		Provider: p.Provider,
		Limiter:  p.Limiter,
	}, p.Config)
	recoveryHandler := server.CreateRecoveryHandler(restHandler)

	srv := &http.Server{
		Addr:    p.Config.ListenAddr,
		Handler: recoveryHandler,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", p.Config.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down server...")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			p.Store.Close()
			return nil
		},
	})
}

// WorkerStartParams for worker lifecycle wiring
type WorkerStartParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Worker    *worker.Worker
}

// StartCleanupWorker starts the maintenance worker
func StartCleanupWorker(p WorkerStartParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Worker.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()
			return nil
		},
	})
}
