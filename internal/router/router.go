package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler       *itinerary.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// Generation calls are rate limited per client IP.
	GenerateRequests int
	GenerateWindow   time.Duration
}

// SetupRouter builds the /api/v1 router. Server-wide middleware (request id, logging,
// recoverer) is applied by main before mounting it.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	h := cfg.ItineraryHandler
	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Group(func(r chi.Router) {
			if cfg.GenerateRequests > 0 && cfg.GenerateWindow > 0 {
				r.Use(httprate.LimitByIP(cfg.GenerateRequests, cfg.GenerateWindow))
			}
			r.Post("/itineraries/generate", h.Generate)
			r.Post("/itineraries/regenerate", h.Regenerate)
		})

		// JWT protected
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/itineraries", h.Save)
			r.Get("/itineraries", h.List)
			r.Get("/itineraries/{id}", h.Get)
			r.Patch("/itineraries/{id}", h.Rename)
			r.Delete("/itineraries/{id}", h.Delete)
			r.Post("/itineraries/{id}/regenerate", h.RegenerateStored)
			r.Get("/itineraries/{id}/activities/{activityID}", h.GetActivity)
		})
	})

	return r
}
