package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-date-ideas/app/observability/metrics"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrEmptyAddress     = errors.New("address is required")
)

const defaultDetailsPerType = 5

var _ Service = (*ServiceImpl)(nil)

// Service is the maps collaborator used by the generation pipeline and the places endpoints.
type Service interface {
	Geocode(ctx context.Context, address string) (*types.GeocodeResult, error)
	SearchNearby(ctx context.Context, req types.NearbySearchRequest) ([]types.Venue, error)
	Autocomplete(ctx context.Context, input string) ([]types.PlaceSuggestion, error)
}

// mapsAPI is the subset of *maps.Client this package calls.
type mapsAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	api            mapsAPI
	geocodeCache   *cache.Cache
	detailsPerType int
}

func NewMapsClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_MAPS_API_KEY is not set")
	}
	return maps.NewClient(maps.WithAPIKey(apiKey))
}

func NewServiceImpl(api mapsAPI, detailsPerType int, geocodeTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	if detailsPerType <= 0 {
		detailsPerType = defaultDetailsPerType
	}
	if geocodeTTL <= 0 {
		geocodeTTL = 24 * time.Hour
	}
	return &ServiceImpl{
		logger:         logger,
		api:            api,
		geocodeCache:   cache.New(geocodeTTL, 2*geocodeTTL),
		detailsPerType: detailsPerType,
	}
}

func (s *ServiceImpl) Geocode(ctx context.Context, address string) (*types.GeocodeResult, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Geocode")
	defer span.End()

	l := s.logger.With(slog.String("method", "Geocode"))

	key := normaliseAddress(address)
	if key == "" {
		return nil, ErrEmptyAddress
	}
	if cached, found := s.geocodeCache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		result := cached.(types.GeocodeResult)
		return &result, nil
	}

	results, err := s.api.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		l.ErrorContext(ctx, "Geocoding request failed", slog.String("address", address), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode failed")
		recordUpstreamError(ctx, "geocode")
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(results) == 0 {
		span.SetStatus(codes.Error, "no results")
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, address)
	}

	result := types.GeocodeResult{
		Coordinates: types.Coordinates{
			Lat: results[0].Geometry.Location.Lat,
			Lng: results[0].Geometry.Location.Lng,
		},
		FormattedAddress: results[0].FormattedAddress,
	}
	s.geocodeCache.Set(key, result, cache.DefaultExpiration)

	l.DebugContext(ctx, "Geocoded address", slog.String("formatted_address", result.FormattedAddress))
	span.SetStatus(codes.Ok, "geocoded")
	return &result, nil
}

// SearchNearby runs one category-scoped nearby search and enriches the top results with
// place details (website, opening hours, UTC offset, formatted address).
func (s *ServiceImpl) SearchNearby(ctx context.Context, req types.NearbySearchRequest) ([]types.Venue, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchNearby", trace.WithAttributes(
		attribute.String("places.type", req.Type),
		attribute.Int("places.radius_m", int(req.RadiusMeters)),
		attribute.Int("places.max_price", req.MaxPrice),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchNearby"), slog.String("type", req.Type))

	searchReq := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: req.Location.Lat, Lng: req.Location.Lng},
		Radius:   req.RadiusMeters,
		Type:     maps.PlaceType(req.Type),
	}
	if req.MaxPrice > 0 {
		searchReq.MaxPrice = priceLevel(req.MaxPrice)
	}

	resp, err := s.api.NearbySearch(ctx, searchReq)
	if err != nil {
		l.ErrorContext(ctx, "Nearby search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		recordUpstreamError(ctx, "nearby_search")
		return nil, fmt.Errorf("nearby search for %s failed: %w", req.Type, err)
	}

	top := resp.Results
	if len(top) > s.detailsPerType {
		top = top[:s.detailsPerType]
	}

	venues := make([]types.Venue, len(top))
	var wg sync.WaitGroup
	for i, place := range top {
		wg.Add(1)
		go func(i int, place maps.PlacesSearchResult) {
			defer wg.Done()
			details, err := s.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
				PlaceID: place.PlaceID,
				Fields: []maps.PlaceDetailsFieldMask{
					maps.PlaceDetailsFieldMaskFormattedAddress,
					maps.PlaceDetailsFieldMaskWebsite,
					maps.PlaceDetailsFieldMaskOpeningHours,
					maps.PlaceDetailsFieldMaskUTCOffset,
				},
			})
			if err != nil {
				// Details only enrich the venue; the search hit is still usable.
				l.WarnContext(ctx, "Place details lookup failed", slog.String("place_id", place.PlaceID), slog.Any("error", err))
				recordUpstreamError(ctx, "place_details")
				venues[i] = toVenue(place, nil)
				return
			}
			venues[i] = toVenue(place, &details)
		}(i, place)
	}
	wg.Wait()

	l.DebugContext(ctx, "Nearby search completed", slog.Int("results", len(resp.Results)), slog.Int("returned", len(venues)))
	span.SetAttributes(attribute.Int("places.count", len(venues)))
	span.SetStatus(codes.Ok, "search completed")
	return venues, nil
}

func (s *ServiceImpl) Autocomplete(ctx context.Context, input string) ([]types.PlaceSuggestion, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Autocomplete")
	defer span.End()

	if strings.TrimSpace(input) == "" {
		return []types.PlaceSuggestion{}, nil
	}

	resp, err := s.api.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeCities,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Autocomplete request failed", slog.String("input", input), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "autocomplete failed")
		recordUpstreamError(ctx, "autocomplete")
		return nil, fmt.Errorf("autocomplete failed: %w", err)
	}

	suggestions := make([]types.PlaceSuggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		suggestions = append(suggestions, types.PlaceSuggestion{Description: p.Description, PlaceID: p.PlaceID})
	}
	span.SetStatus(codes.Ok, "autocomplete completed")
	return suggestions, nil
}

func recordUpstreamError(ctx context.Context, call string) {
	metrics.Get().UpstreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("upstream", "maps"),
		attribute.String("call", call),
	))
}
