package handlers

import (
	"net/http"

	"microfin/internal/middleware"
	"microfin/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authed).Get("/me", h.Me)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authed, adminOnly)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Patch("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	router.Route("/officers", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateOfficer)
		r.Get("/", h.ListOfficers)
		r.Get("/{id}", h.GetOfficer)
		r.Patch("/{id}", h.UpdateOfficer)
		r.Delete("/{id}", h.DeleteOfficer)
	})

	router.Route("/clients", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateClient)
		r.Get("/", h.ListClients)
		r.Get("/{id}", h.GetClient)
		r.Get("/officer/{officerId}", h.ListClientsByOfficer)
		r.Patch("/{id}", h.UpdateClient)
		r.Delete("/{id}", h.DeleteClient)
	})

	router.Route("/accounts", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/{id}", h.GetAccount)
		r.Patch("/{id}", h.UpdateAccount)
		r.Delete("/{id}", h.DeleteAccount)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Get("/{id}", h.GetLoan)
		r.Get("/officer/{officerId}", h.ListLoansByOfficer)
		r.Patch("/{id}", h.UpdateLoan)
		r.Delete("/{id}", h.DeleteLoan)
	})

	router.Route("/transactions", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.ListTransactions)
		r.Get("/{id}", h.GetTransaction)
		r.Patch("/{id}", h.UpdateTransaction)
		r.Delete("/{id}", h.DeleteTransaction)
	})

	router.Route("/tickets", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateTicket)
		r.Get("/", h.ListTickets)
		r.Get("/{id}", h.GetTicket)
		r.Post("/{id}/replies", h.ReplyTicket)
		r.Patch("/{id}", h.UpdateTicket)
		r.Delete("/{id}", h.DeleteTicket)
	})

	router.Route("/reports", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateReport)
		r.Get("/", h.ListReports)
		r.Get("/{id}", h.GetReport)
		r.Get("/officer/{officerId}", h.ListReportsByOfficer)
		r.Patch("/{id}", h.UpdateReport)
		r.Delete("/{id}", h.DeleteReport)
	})

	router.With(authed, adminOnly).Get("/logs", h.ListLogs)
	router.With(authed, adminOnly).Get("/dashboard", h.Dashboard)

	router.Get("/ws/updates", h.WSUpdates)

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploads.Dir())))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
