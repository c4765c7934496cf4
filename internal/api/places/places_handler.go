package places

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/internal/api"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Autocomplete returns city suggestions for the location input.
func (h *HandlerImpl) Autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "Autocomplete", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/autocomplete"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Autocomplete"))

	suggestions, err := h.service.Autocomplete(ctx, r.URL.Query().Get("input"))
	if err != nil {
		l.ErrorContext(ctx, "Autocomplete failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Location suggestions are unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// Geocode resolves a free-text address to coordinates.
func (h *HandlerImpl) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "Geocode", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/geocode"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Geocode"))

	result, err := h.service.Geocode(ctx, r.URL.Query().Get("address"))
	switch {
	case errors.Is(err, ErrEmptyAddress):
		api.ErrorResponse(w, r, http.StatusBadRequest, "address is required")
		return
	case errors.Is(err, ErrLocationNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Could not find that location")
		return
	case err != nil:
		l.ErrorContext(ctx, "Geocode failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Geocoding is unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
