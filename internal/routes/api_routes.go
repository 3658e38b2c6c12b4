package routes

import (
	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/api"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	r.Route("/api/v1", func(v1 chi.Router) {
		// Public catalog
		v1.Get("/events", handlers.ListEvents())
		v1.Get("/events/{eventID}", handlers.GetEvent())
		v1.Get("/events/{eventID}/related", handlers.RelatedEvents())
		v1.Get("/events/{eventID}/stats", handlers.EventStats())
		v1.Get("/events/{eventID}/ratings", handlers.EventRatings())
		v1.Get("/events/{eventID}/ratings/{userID}", handlers.UserRatingsForEvent())
		v1.Get("/categories", handlers.ListCategories())
		v1.Get("/users", handlers.ListUsersByRole())
		v1.Get("/users/{userID}", handlers.GetUser())
		v1.Get("/users/{userID}/rating", handlers.UserRating())
		v1.Get("/users/{userID}/events", handlers.EventsByHost())

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Config.Identity))

			// Explicit sign-up; every other route creates the record on demand.
			authed.Post("/users", handlers.CreateUser())

			authed.Group(func(operator chi.Router) {
				operator.Use(middleware.RequireOperator(deps.Config))
				operator.Get("/admin/verifications", handlers.ListPendingVerifications())
				operator.Put("/admin/users/{identityID}/verification", handlers.ReviewVerification())
				operator.Post("/admin/categories", handlers.CreateCategory())
			})

			authed.Group(func(user chi.Router) {
				user.Use(middleware.RequireUser(deps.Services.User))

				user.Get("/me", handlers.GetMe())
				user.Put("/me", handlers.UpdateMe())
				user.Delete("/me", handlers.DeleteMe())
				user.Put("/me/role", handlers.UpdateMyRole())
				user.Get("/me/dashboard", handlers.Dashboard())
				user.Get("/me/registrations", handlers.MyRegistrations())
				user.Get("/me/verification", handlers.GetMyVerification())
				user.Post("/me/verification/kj", handlers.SubmitKJVerification())
				user.Post("/me/verification/promoter", handlers.SubmitPromoterVerification())

				user.Get("/me/notifications", handlers.ListNotifications())
				user.Get("/me/notifications/unread-count", handlers.UnreadCount())
				user.Post("/me/notifications/read-all", handlers.MarkAllNotificationsRead())
				user.Post("/notifications/{notificationID}/read", handlers.MarkNotificationRead())
				user.Delete("/notifications/{notificationID}", handlers.DeleteNotification())

				user.Get("/events/{eventID}/eligibility", handlers.Eligibility())
				user.Post("/events/{eventID}/registrations", handlers.CreateRegistration())
				user.Put("/registrations/{registrationID}", handlers.UpdateRegistration())
				user.Delete("/registrations/{registrationID}", handlers.DeleteRegistration())
				user.Post("/ratings", handlers.SubmitRating())

				user.Group(func(ks chi.Router) {
					ks.Use(middleware.RequireRole(constants.RoleKS))
					ks.Get("/dashboard/ks/history", handlers.KSEventHistory())
					ks.Get("/dashboard/ks/interested", handlers.KSInterestedEvents())
				})

				// KJ-only group
				user.Group(func(kj chi.Router) {
					kj.Use(middleware.RequireRole(constants.RoleKJ))

					kj.Post("/events", handlers.CreateEvent())
					kj.Put("/events/{eventID}", handlers.UpdateEvent())
					kj.Patch("/events/{eventID}/status", handlers.UpdateEventStatus())
					kj.Delete("/events/{eventID}", handlers.DeleteEvent())
					kj.Get("/events/{eventID}/registrations", handlers.EventRegistrations())

					kj.Post("/registrations/{registrationID}/approve", handlers.ApproveRegistration())
					kj.Post("/registrations/{registrationID}/reject", handlers.RejectRegistration())
					kj.Post("/registrations/{registrationID}/attendance", handlers.MarkAttendance())

					kj.Get("/dashboard/kj/queue", handlers.KJRegistrationQueue())
					kj.Get("/dashboard/kj/events", handlers.KJEventsWithStats())
				})
			})
		})
	})
}
