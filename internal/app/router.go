package app

import (
	"database/sql"
	"net/http"
	"time"

	"formlab/internal/app/observability"
	"formlab/internal/auth"
	"formlab/internal/form"
	"formlab/internal/question"
	"formlab/internal/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg Config, db *sql.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	collector := observability.NewCollector(db)
	r.Use(collector.Middleware)
	r.Use(CSRFMiddleware(cfg.CSRFEnforced))

	authSvc := auth.NewService(db, auth.ServiceConfig{SessionTTL: cfg.SessionTTL})
	authHandler := auth.NewHandler(authSvc)

	formSvc := form.NewService(db)
	formHandler := form.NewHandler(formSvc)

	questionSvc := question.NewService(db, formSvc)
	questionHandler := question.NewHandler(questionSvc)

	responseSvc := response.NewService(db, questionSvc)
	responseHandler := response.NewHandler(questionSvc, responseSvc)

	authLimiter := NewIPRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(limited chi.Router) {
			limited.Use(RateLimitMiddleware(authLimiter))
			limited.Post("/auth/signup", authHandler.Signup)
			limited.Post("/auth/login", authHandler.Login)
		})

		// Respondents answer without an account.
		api.Get("/completion/{id}", responseHandler.Load)
		api.Post("/completion/{id}", responseHandler.Submit)

		api.Group(func(secure chi.Router) {
			secure.Use(authHandler.RequireAuth)
			secure.Get("/auth/me", authHandler.Me)
			secure.Post("/auth/logout", authHandler.Logout)

			secure.Post("/forms", formHandler.Create)
			secure.Get("/forms", formHandler.List)
			secure.Put("/forms/{id}/name", formHandler.Rename)
			secure.Delete("/forms/{id}", formHandler.Delete)

			secure.Get("/forms/{id}/questions", questionHandler.Load)
			secure.Post("/forms/{id}/questions", questionHandler.Create)
			secure.Put("/forms/{id}/order", questionHandler.Reorder)

			secure.Put("/questions/{kind}/{id}", questionHandler.Update)
			secure.Delete("/questions/{kind}/{id}", questionHandler.Delete)
			secure.Post("/choices/{id}/options", questionHandler.AddOption)
			secure.Delete("/options/{id}", questionHandler.DeleteOption)
			secure.Post("/rankings/{id}/options", questionHandler.AddRankOption)
			secure.Delete("/rank-options/{id}", questionHandler.DeleteRankOption)

			secure.Get("/stats", collector.MetricsHandler)
		})
	})

	return r
}
