package server

import (
	"fmt"
	"net/http"
	"time"

	"ganak-service/src/app"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// StartServer serves the composed application and blocks until shutdown
func StartServer(a *app.App) {
	// Get the logger from the config
	cfg := a.Config
	logger := cfg.Logger

	// Set up the HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServicePort),
		Handler:           a.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Log server initialization success
	logger.Info("✅ HTTP server setup completed successfully")

	// Run server in a goroutine
	go func() {
		logger.Info(fmt.Sprintf("✅ %s is running on port: %s", cfg.ServiceName, cfg.ServicePort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Call graceful shutdown
	GracefulShutdown(srv, a, shutdownTimeout)
}
