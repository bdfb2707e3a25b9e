package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apimiddleware "github.com/flashdeck/flashdeck-api/internal/api/middleware"
)

// routes creates and configures the application router with all routes
// and middleware.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.NewTraceMiddleware(app.logger))

	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	documentHandler := api.NewDocumentHandler(app.documentService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.config.Auth.APIKey)

	// All card and document routes require the API key.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/create_card", cardHandler.CreateCard)
		r.Put("/update_card/{id}", cardHandler.UpdateCard)
		r.Get("/next_card", cardHandler.NextCard)
		r.Get("/next_card_by_tag", cardHandler.NextCardByTag)
		r.Post("/mark_success/{id}", cardHandler.MarkSuccess)
		r.Post("/mark_failure/{id}", cardHandler.MarkFailure)
		r.Post("/set_due_date/{id}", cardHandler.SetDueDate)
		r.Delete("/delete_card/{id}", cardHandler.DeleteCard)
		r.Get("/download_cards", cardHandler.DownloadCards)
		r.Post("/upload_cards", cardHandler.UploadCards)

		r.Route("/documents", func(r chi.Router) {
			// Fixed segments are registered before the {title} wildcard.
			r.Get("/titles", documentHandler.GetTitles)
			r.Get("/titles/by_tags", documentHandler.GetTitlesByTags)
			r.Get("/by_tags", documentHandler.GetDocumentsByTags)
			r.Get("/search", documentHandler.SearchDocuments)
			r.Get("/download", documentHandler.DownloadDocuments)
			r.Post("/upload", documentHandler.UploadDocuments)
			r.Post("/", documentHandler.CreateDocument)
			r.Get("/{title}", documentHandler.GetDocument)
			r.Put("/{title}", documentHandler.UpdateDocument)
			r.Delete("/{title}", documentHandler.DeleteDocument)
		})
	})

	// Health check endpoint (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
