package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/woklearn/woklearn-api/internal/api"
	apiMiddleware "github.com/woklearn/woklearn-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.tokenService)
	accountHandler := api.NewAccountHandler(app.userService)
	learningHandler := api.NewLearningHandler(app.progressService)
	paintingHandler := api.NewPaintingHandler(app.paintingStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/account/create", accountHandler.Create)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Account self-service
			r.Delete("/account/remove", accountHandler.Remove)
			r.Put("/account/change-username", accountHandler.ChangeUsername)
			r.Post("/account/change-password", accountHandler.ChangePassword)

			// Learning progress
			r.Post("/learning/clear-learned", learningHandler.ClearLearned)
			r.Post("/learning/answer", learningHandler.Answer)
			r.Get("/learning/guesses/{paintingID}", learningHandler.GuessCount)
			r.Get("/learning/guesses", learningHandler.Mastered)
			r.Get("/learning/skip-level", learningHandler.GetSkipLevel)
			r.Post("/learning/skip-level", learningHandler.SetSkipLevel)
			r.Get("/learning/learn", learningHandler.Learn)

			// Painting catalog reads
			r.Get("/paintings", paintingHandler.List)
			r.Get("/paintings/styles", paintingHandler.Styles)
			r.Get("/paintings/authors", paintingHandler.Authors)
			r.Get("/paintings/{id}", paintingHandler.Get)

			// Administrative endpoints
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdministrator)

				r.Delete("/account/admin/{id}", accountHandler.AdminRemove)
				r.Put("/account/admin/{id}/change-username", accountHandler.AdminChangeUsername)
				r.Get("/account/admin/users", accountHandler.AdminListUsers)

				r.Post("/paintings", paintingHandler.Create)
				r.Put("/paintings/{id}", paintingHandler.Update)
				r.Delete("/paintings/{id}", paintingHandler.Delete)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
