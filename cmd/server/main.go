package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/asemenov/chatground/internal/fx"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,     // Provides: config.Config
		appfx.HTTPClientModule, // Provides: *httpclient.Client
		appfx.HistoryModule,    // Provides: history.Store
		appfx.AIModule,         // Provides: ai.Provider
		appfx.SearchModule,     // Provides: source clients + *search.Registry
		appfx.RetrievalModule,  // Provides: *retrieval.Aggregator
		appfx.CoreModule,       // Provides: *core.AssistantCore
		appfx.RateLimitModule,  // Provides: *ratelimit.Limiter
		appfx.WorkerModule,     // Provides: *worker.Worker
		appfx.ServerModule,     // Starts HTTP server + worker

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
