package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	httphandlers "budget/internal/interfaces/http"
	"budget/internal/shared/config"
	"budget/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/auth/validate", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleValidate)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/summary", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleSummary)))
	mux.Handle("/api/transactions/", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	// Stored attachments
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.Blobs.Dir()))))

	// Apply global middleware
	return middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
}
