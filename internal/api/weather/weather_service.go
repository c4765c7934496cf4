package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/app/observability/metrics"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const (
	DefaultBaseURL  = "https://weather.googleapis.com/v1/forecast/days:lookup"
	maxForecastDays = 10
	defaultTTL      = 30 * time.Minute
)

var (
	ErrMissingAPIKey = errors.New("weather API key is not configured")
	ErrUpstream      = errors.New("weather API request failed")
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Forecast returns nil without error when no forecast exists for the date.
	Forecast(ctx context.Context, at types.Coordinates, date time.Time) (*types.WeatherForecast, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *cache.Cache
	now     func() time.Time
}

func NewServiceImpl(client *http.Client, baseURL, apiKey string, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ServiceImpl{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache.New(ttl, 2*ttl),
		now:     time.Now,
	}
}

// DaysAhead counts calendar days from today to date; 0 is today.
func DaysAhead(today, date time.Time) int {
	y1, m1, d1 := today.Date()
	y2, m2, d2 := date.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func (s *ServiceImpl) Forecast(ctx context.Context, at types.Coordinates, date time.Time) (*types.WeatherForecast, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "Forecast", trace.WithAttributes(
		attribute.Float64("location.lat", at.Lat),
		attribute.Float64("location.lng", at.Lng),
		attribute.String("date", date.Format(time.DateOnly)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Forecast"))

	days := DaysAhead(s.now(), date)
	if days < 0 || days > maxForecastDays {
		l.DebugContext(ctx, "Date outside forecast window", slog.Int("days_ahead", days))
		span.SetStatus(codes.Ok, "outside forecast window")
		return nil, nil
	}

	key := fmt.Sprintf("%.4f,%.4f,%s", at.Lat, at.Lng, date.Format(time.DateOnly))
	if cached, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.(*types.WeatherForecast), nil
	}

	if s.apiKey == "" {
		span.SetStatus(codes.Error, "missing api key")
		return nil, ErrMissingAPIKey
	}

	resp, err := s.fetch(ctx, at, days+1)
	if err != nil {
		metrics.Get().UpstreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("call", "weather")))
		l.WarnContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather lookup failed")
		return nil, err
	}

	forecast := resp.forDate(date, days)
	if forecast != nil {
		s.cache.Set(key, forecast, cache.DefaultExpiration)
	}
	span.SetStatus(codes.Ok, "forecast fetched")
	return forecast, nil
}

func (s *ServiceImpl) fetch(ctx context.Context, at types.Coordinates, days int) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("location.latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	q.Set("days", strconv.Itoa(days))
	q.Set("unitsSystem", "IMPERIAL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building weather request: %w", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding weather response: %w", err)
	}
	return &body, nil
}
