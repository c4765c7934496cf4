package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	dateGeneration "github.com/FACorreiaa/go-date-ideas/internal/api/date_generation"
	"github.com/FACorreiaa/go-date-ideas/internal/api/places"
	savedIdeas "github.com/FACorreiaa/go-date-ideas/internal/api/saved_ideas"
	"github.com/FACorreiaa/go-date-ideas/internal/api/weather"
)

const defaultGenerateRateLimit = 10

// Config contains dependencies needed for the router setup.
type Config struct {
	GenerationHandler      *dateGeneration.HandlerImpl
	SavedIdeasHandler      *savedIdeas.HandlerImpl
	PlacesHandler          *places.HandlerImpl
	WeatherHandler         *weather.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// GenerateRateLimit is requests per minute per client IP on the generation route.
	GenerateRateLimit int
}

// SetupRouter builds the API routes. Server-wide middleware is applied in main.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	limit := cfg.GenerateRateLimit
	if limit <= 0 {
		limit = defaultGenerateRateLimit
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.With(httprate.LimitByIP(limit, time.Minute)).
				Post("/date-ideas/generate", cfg.GenerationHandler.GenerateDateIdeas)

			r.Route("/saved-ideas", func(r chi.Router) {
				r.Post("/", cfg.SavedIdeasHandler.SaveIdea)
				r.Get("/", cfg.SavedIdeasHandler.ListIdeas)
				r.Get("/{ideaID}", cfg.SavedIdeasHandler.GetIdea)
				r.Delete("/{ideaID}", cfg.SavedIdeasHandler.DeleteIdea)
				r.Patch("/{ideaID}/review", cfg.SavedIdeasHandler.UpdateReview)
				r.Get("/{ideaID}/calendar-link", cfg.SavedIdeasHandler.CalendarLink)
			})

			r.Get("/places/autocomplete", cfg.PlacesHandler.Autocomplete)
			r.Get("/places/geocode", cfg.PlacesHandler.Geocode)
			r.Get("/weather", cfg.WeatherHandler.GetForecast)
		})
	})

	return r
}
