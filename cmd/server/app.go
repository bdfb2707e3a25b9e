package main

import (
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// application holds the wired dependencies of the running server.
type application struct {
	config          *config.Config
	logger          *slog.Logger
	backend         *backend
	cardService     service.CardService
	documentService service.DocumentService
}

// newApplication connects to the datastore, applies migrations and builds
// the service layer.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	b, err := openDatabase(cfg.Database.URL, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(b, logger); err != nil {
		return nil, err
	}

	cardService, err := service.NewCardService(
		b.db,
		b.cards,
		b.meta,
		srs.NewDefaultPolicy(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build card service: %w", err)
	}

	documentService, err := service.NewDocumentService(b.db, b.docs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build document service: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          logger,
		backend:         b,
		cardService:     cardService,
		documentService: documentService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.backend != nil && app.backend.db != nil {
		if err := app.backend.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
