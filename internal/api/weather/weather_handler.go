package weather

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/internal/api"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
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

// GetForecast answers with a forecast or JSON null. Upstream failures are logged, not surfaced,
// so clients simply hide the weather block.
func (h *HandlerImpl) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetForecast", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetForecast"))

	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}
	date, err := time.Parse(time.DateOnly, q.Get("date"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	forecast, err := h.service.Forecast(ctx, types.Coordinates{Lat: lat, Lng: lng}, date)
	if err != nil {
		l.WarnContext(ctx, "Forecast unavailable", slog.Any("error", err))
		forecast = nil
	}
	api.WriteJSONResponse(w, r, http.StatusOK, forecast)
}
