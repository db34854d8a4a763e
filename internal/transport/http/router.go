package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/config"
	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/transport/http/handler"
	appmiddleware "github.com/salu-0/rubbereco-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the application wiring and returns the router.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the producer endpoints.
	producerRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	store := notify.NewStore(ctx, deps.Snapshots)
	bus := notify.NewHandoffBus()
	dispatcher := notify.NewDispatcher(store, bus, deps.Snapshots, deps.Mailer, deps.SMSSender)

	healthH := handler.NewHealthHandler()
	producerH := handler.NewProducerHandler(store)
	notifH := handler.NewNotificationHandler(store)
	feedH := handler.NewFeedHandler(store)
	dispatchH := handler.NewDispatchHandler(store, dispatcher)
	streamH := handler.NewStreamHandler(store, bus)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			// Producers, one per notification kind.
			r.Group(func(r chi.Router) {
				r.Use(producerRL.Limit)
				r.Post("/notifications/tapper-requests", producerH.TapperRequest)
				r.Post("/notifications/staff-requests", producerH.StaffRequest)
				r.Post("/notifications/land-registrations", producerH.LandRegistration)
				r.Post("/notifications/land-leases", producerH.LandLease)
				r.Post("/notifications/service-requests", producerH.ServiceRequest)
				r.Post("/notifications/tenancy-offerings", producerH.TenancyOffering)
				r.Post("/notifications/leave-requests", producerH.LeaveRequest)
			})

			r.Get("/feed", feedH.Get)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread-count", notifH.UnreadCount)
			r.Get("/notifications/recent", notifH.Recent)
			r.Get("/notifications/high-priority", notifH.HighPriorityUnread)
			r.Get("/notifications/stream", streamH.Notifications)
			r.Get("/notifications/{id}", notifH.Get)

			r.Put("/notifications/read-all", notifH.MarkAllAsRead)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)
			r.Delete("/notifications/{id}", notifH.Delete)

			r.Post("/notifications/{id}/dispatch", dispatchH.Dispatch)
			r.Get("/handoffs/latest", dispatchH.LatestHandoff)
			r.Get("/handoffs/stream", streamH.Handoffs)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Delete("/notifications", notifH.Clear)
			})
		})
	})

	return r
}
