package main

import (
	"log"

	"budget/internal/infrastructure/blob"
	"budget/internal/infrastructure/postgres"
	httphandlers "budget/internal/interfaces/http"
	"budget/internal/shared/auth"
	"budget/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Blobs *blob.DiskStore

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Apply pending schema migrations
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize attachment store
	blobs, err := blob.NewDiskStore(cfg.Uploads.Dir)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo, blobs)

	return &Dependencies{
		DB:                 db,
		Blobs:              blobs,
		AuthHandler:        authHandler,
		TransactionHandler: transactionHandler,
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
