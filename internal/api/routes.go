package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leadforge/leadforge/internal/auth"
)

// SetupRoutes configures all API routes. authManager may be nil in tests;
// auth-gated groups are then registered without the session middleware.
func SetupRoutes(h *Handlers, authManager *auth.Manager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS must allow credentials for the session cookie.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Archive-Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.health.HandleHealth)

	// Auth and invite redemption (no auth required: these are how a user
	// gets a session in the first place)
	if authManager != nil {
		r.Get("/auth/login", authManager.HandleLogin)
		r.Get("/auth/callback", authManager.HandleCallback)
		r.Get("/auth/logout", authManager.HandleLogout)
		r.Get("/auth/user", authManager.HandleUserInfo)
	}
	r.Post("/auth/redeem", h.HandleRedeemInvite)

	r.Route("/api", func(r chi.Router) {
		if authManager != nil {
			r.Use(authManager.RequireAuth)
		}

		// Email permutation workbench
		r.Route("/permute", func(r chi.Router) {
			r.Post("/", h.HandleGeneratePermutations)
			r.Post("/custom", h.HandleAddCustomCandidate)
			r.Post("/remove", h.HandleRemoveCandidate)
			r.Post("/update", h.HandleUpdateCandidate)
		})

		// Scrape jobs
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.HandleCreateJob)
			r.Get("/", h.HandleListJobs)
			r.Get("/{id}", h.HandleGetJob)
			r.Post("/{id}/cancel", h.HandleCancelJob)
		})

		// Leads: export routes before /{id} so "export" is not read as an ID
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.HandleListLeads)
			r.Get("/export", h.HandleExportLeads)
			r.Post("/export/campaign", h.HandleCampaignExport)
			r.Get("/{id}", h.HandleGetLead)
			r.Get("/{id}/candidates", h.HandleLeadCandidates)
			r.Post("/{id}/verify", h.HandleVerifyLead)
		})

		// Credits
		r.Route("/credits", func(r chi.Router) {
			r.Get("/balance", h.HandleGetBalance)
			r.Get("/history", h.HandleCreditHistory)
		})

		// Admin-only routes
		r.Route("/admin", func(r chi.Router) {
			if authManager != nil {
				r.Use(authManager.RequireAdmin)
			}

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.HandleListUsers)
				r.Get("/{id}", h.HandleGetUser)
				r.Post("/{id}/approve", h.HandleApproveUser)
				r.Post("/{id}/reject", h.HandleRejectUser)
				r.Post("/{id}/suspend", h.HandleSuspendUser)
				r.Post("/{id}/reinstate", h.HandleReinstateUser)
				r.Post("/{id}/credits", h.HandleGrantCredits)
			})

			r.Route("/invites", func(r chi.Router) {
				r.Post("/", h.HandleCreateInvite)
				r.Get("/", h.HandleListInvites)
				r.Post("/{id}/revoke", h.HandleRevokeInvite)
			})
		})
	})

	return r
}
