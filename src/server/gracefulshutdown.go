package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ganak-service/src/app"
)

// GracefulShutdown waits for SIGINT or SIGTERM, drains the server and then
// releases the application's connections.
func GracefulShutdown(srv *http.Server, a *app.App, timeout time.Duration) {
	logger := a.Config.Logger

	// Create a channel to listen for termination signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	// Log that graceful shutdown handling is set up
	logger.Info("✅ Graceful shutdown monitoring initialized successfully")

	// Wait for signal
	<-stop
	logger.Info("🔄 Shutdown signal received. Cleaning up...")

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("⚠️ Graceful shutdown failed: " + err.Error())
	} else {
		logger.Info("✅ Server shut down gracefully")
	}

	// Release the database and cache clients
	if err := a.Close(ctx); err != nil {
		logger.Error("⚠️ Failed to close connections: " + err.Error())
	} else {
		logger.Info("✅ Connections closed")
	}
}
