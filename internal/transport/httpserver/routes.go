package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"property-match-go/internal/config"
	"property-match-go/internal/transport/httpserver/handler"
	authmw "property-match-go/internal/transport/httpserver/middleware"
	"property-match-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserStore, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Shared listing views carry the link as their credential.
		r.Get("/public/properties/{id}/{link}", handlers.PublicProperty)

		auth := authmw.NewAuth(cfg.Auth, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Post("/auth/request-admin", handlers.RequestAdmin)

			r.Post("/landlords/register", handlers.RegisterLandlord)
			r.Post("/landlords/claim/{link}", handlers.ClaimInvite)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireLandlord)
				r.Get("/landlords/me", handlers.GetLandlordMe)
				r.Patch("/landlords/me", handlers.UpdateLandlordMe)
				r.Get("/landlords/me/properties", handlers.ListMyProperties)

				r.Post("/properties", handlers.CreateProperty)
				r.Patch("/properties/{id}/step/{step}", handlers.UpdatePropertyStep)
				r.Post("/properties/{id}/complete", handlers.CompleteProperty)
				r.Put("/properties/{id}/availability", handlers.SetPropertyAvailability)
				r.Put("/properties/{id}/units", handlers.SetPropertyUnits)
				r.Post("/properties/{id}/images", handlers.UploadPropertyImage)
				r.Post("/properties/{id}/public-link", handlers.CreatePublicLink)
				r.Delete("/properties/{id}/public-link", handlers.DeletePublicLink)
			})

			// Readable by the owning landlord or an admin; the handlers
			// resolve which, so no role middleware here.
			r.Get("/properties/{id}", handlers.GetProperty)
			r.Delete("/properties/{id}", handlers.DeleteProperty)
			r.Get("/properties/{id}/matches", handlers.PropertyMatches)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAdmin)
				r.Get("/admin/users", handlers.ListUsers)
				r.Get("/admin/users/requests", handlers.ListAdminRequests)
				r.Post("/admin/users/{id}/admin", handlers.GrantAdmin)
				r.Delete("/admin/users/{id}/admin", handlers.RevokeAdmin)

				r.Get("/admin/landlords", handlers.ListLandlords)
				r.Get("/admin/landlords/{id}", handlers.GetLandlord)
				r.Post("/admin/landlords/{id}/approve", handlers.ApproveLandlord)
				r.Post("/admin/landlords/invite", handlers.CreateInvite)

				r.Get("/admin/tenants", handlers.ListTenants)
				r.Post("/admin/tenants/import/check", handlers.CheckTenantImport)
				r.Post("/admin/tenants/import", handlers.ImportTenants)
			})
		})
	})

	return r
}
