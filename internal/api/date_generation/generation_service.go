package dateGeneration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-date-ideas/app/observability/metrics"
	"github.com/FACorreiaa/go-date-ideas/config"
	generativeAI "github.com/FACorreiaa/go-date-ideas/internal/api/generative_ai"
	"github.com/FACorreiaa/go-date-ideas/internal/api/places"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

var (
	ErrNoVenuesFound = errors.New("no venues found")
	ErrNoIdeas       = errors.New("no date ideas could be generated")
)

const LocationWarning = "Could not find your location. Using default area."

var defaultVenueTypes = []string{
	"restaurant", "cafe", "bar", "museum", "art_gallery",
	"park", "movie_theater", "bowling_alley", "night_club",
}

// TextGenerator is the hosted LLM seen by the pipeline.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts generativeAI.GenerateOptions) (string, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.GeocodeResult, error)
}

type VenueSearcher interface {
	SearchNearby(ctx context.Context, req types.NearbySearchRequest) ([]types.Venue, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, prefs types.DatePreferences) (*types.GenerationResult, error)
}

type Options struct {
	DefaultOrigin      types.Coordinates
	VenueTypes         []string
	Policy             FilterPolicy
	SelectTemperature  float32
	ContentTemperature float32
	// Now supplies the instant used by the opening-hours check.
	Now func() time.Time
}

func OptionsFromConfig(cfg config.GenerationConfig, ai config.AIConfig) Options {
	return Options{
		DefaultOrigin:      types.Coordinates{Lat: cfg.DefaultLatitude, Lng: cfg.DefaultLongitude},
		VenueTypes:         cfg.VenueTypes,
		Policy:             NewFilterPolicy(cfg.Filter),
		SelectTemperature:  ai.SelectTemperature,
		ContentTemperature: ai.ContentTemperature,
	}
}

type ServiceImpl struct {
	logger   *slog.Logger
	geocoder Geocoder
	searcher VenueSearcher
	ai       TextGenerator
	opts     Options
}

func NewServiceImpl(geocoder Geocoder, searcher VenueSearcher, ai TextGenerator, opts Options, logger *slog.Logger) *ServiceImpl {
	if len(opts.VenueTypes) == 0 {
		opts.VenueTypes = defaultVenueTypes
	}
	if opts.DefaultOrigin == (types.Coordinates{}) {
		opts.DefaultOrigin = types.Coordinates{Lat: 37.7749, Lng: -122.4194}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ServiceImpl{
		logger:   logger,
		geocoder: geocoder,
		searcher: searcher,
		ai:       ai,
		opts:     opts,
	}
}

// Generate runs geocode -> search fan-out -> filter -> selection -> content -> assembly.
func (s *ServiceImpl) Generate(ctx context.Context, prefs types.DatePreferences) (*types.GenerationResult, error) {
	ctx, span := otel.Tracer("DateGenerationService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("prefs.duration", string(prefs.Duration)),
		attribute.String("prefs.dress_code", string(prefs.DressCode)),
		attribute.Float64("prefs.budget", prefs.Budget),
		attribute.Float64("prefs.radius_miles", prefs.RadiusMiles),
	))
	defer span.End()

	start := time.Now()
	l := s.logger.With(slog.String("method", "Generate"), slog.String("duration", string(prefs.Duration)))

	if err := prefs.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid preferences")
		return nil, err
	}

	result, err := s.generate(ctx, l, prefs)

	outcome := "success"
	switch {
	case errors.Is(err, ErrNoVenuesFound), errors.Is(err, ErrNoIdeas):
		outcome = "empty"
	case err != nil:
		outcome = "error"
	}
	m := metrics.Get()
	m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	m.GeneratedIdeasTotal.Add(ctx, int64(len(result.Ideas)))
	span.SetAttributes(attribute.Int("ideas.count", len(result.Ideas)))
	span.SetStatus(codes.Ok, "ideas generated")
	return result, nil
}

func (s *ServiceImpl) generate(ctx context.Context, l *slog.Logger, prefs types.DatePreferences) (*types.GenerationResult, error) {
	result := &types.GenerationResult{}

	origin, warning := s.resolveOrigin(ctx, prefs.UserLocation)
	result.Origin = origin
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	all := DedupeVenues(s.searchVenues(ctx, origin, prefs))
	now := s.opts.Now()
	if loc := prefs.Location(); loc != nil {
		now = now.In(loc)
	}
	filtered := FilterByDuration(all, prefs.Duration, s.opts.Policy, now)
	l.InfoContext(ctx, "Venues filtered by duration", slog.Int("found", len(all)), slog.Int("kept", len(filtered)))
	if len(filtered) == 0 {
		return nil, ErrNoVenuesFound
	}

	selections := s.selectVenues(ctx, filtered, prefs, origin)
	contents := s.generateContent(ctx, selections, filtered)

	for i, sel := range selections {
		venues := venuesFor(sel, filtered)
		if len(venues) == 0 {
			continue
		}
		result.Ideas = append(result.Ideas, AssembleIdea(i, sel, contents[i], venues, prefs))
	}

	if len(result.Ideas) == 0 {
		l.WarnContext(ctx, "No ideas survived selection, using exploration fallback")
		s.recordFallback(ctx, "assembly")
		idea, ok := ExplorationFallback(filtered, prefs)
		if !ok {
			return nil, ErrNoIdeas
		}
		result.Ideas = append(result.Ideas, idea)
	}
	return result, nil
}

func (s *ServiceImpl) resolveOrigin(ctx context.Context, location string) (types.Coordinates, string) {
	if location == "" {
		return s.opts.DefaultOrigin, ""
	}
	geo, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		s.logger.WarnContext(ctx, "Geocoding failed, using default origin", slog.String("location", location), slog.Any("error", err))
		s.recordFallback(ctx, "geocode")
		return s.opts.DefaultOrigin, LocationWarning
	}
	return geo.Coordinates, ""
}

// searchVenues issues one nearby search per category concurrently. A failed category
// contributes no venues and never cancels the others.
func (s *ServiceImpl) searchVenues(ctx context.Context, origin types.Coordinates, prefs types.DatePreferences) []types.Venue {
	results := make([][]types.Venue, len(s.opts.VenueTypes))
	radius := places.MilesToMeters(prefs.RadiusMiles)
	maxPrice := places.PriceTierForBudget(prefs.Budget)

	var g errgroup.Group
	for i, venueType := range s.opts.VenueTypes {
		g.Go(func() error {
			venues, err := s.searcher.SearchNearby(ctx, types.NearbySearchRequest{
				Location:     origin,
				RadiusMeters: radius,
				Type:         venueType,
				MaxPrice:     maxPrice,
			})
			if err != nil {
				s.logger.WarnContext(ctx, "Category search failed", slog.String("type", venueType), slog.Any("error", err))
				return nil
			}
			results[i] = venues
			return nil
		})
	}
	_ = g.Wait()

	var all []types.Venue
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// selectVenues makes a single model call; failures fall through to the static selection.
func (s *ServiceImpl) selectVenues(ctx context.Context, venues []types.Venue, prefs types.DatePreferences, origin types.Coordinates) []IdeaSelection {
	ctx, span := otel.Tracer("DateGenerationService").Start(ctx, "SelectVenues")
	defer span.End()

	required, maxCount := RequiredActivities(prefs.Duration)
	ideaCount := DesiredIdeaCount(len(venues), required)
	prompt := buildSelectionPrompt(venues, prefs, origin, required, maxCount, ideaCount)

	raw, callErr := s.ai.GenerateText(ctx, prompt, generativeAI.GenerateOptions{
		SystemInstruction: selectionSystemInstruction,
		Temperature:       s.opts.SelectTemperature,
		JSON:              true,
	})
	selections, source, err := ResolveSelection(raw, callErr, len(venues), prefs.Duration)
	if err != nil {
		s.logger.WarnContext(ctx, "Venue selection failed, using static fallback", slog.Any("error", err))
		span.RecordError(err)
		s.recordFallback(ctx, "selection")
	}

	span.SetAttributes(
		attribute.String("selection.source", string(source)),
		attribute.Int("selection.count", len(selections)),
	)
	return selections
}

// generateContent produces title and description per idea in parallel. contents[i]
// belongs to selections[i].
func (s *ServiceImpl) generateContent(ctx context.Context, selections []IdeaSelection, venues []types.Venue) []IdeaContent {
	contents := make([]IdeaContent, len(selections))

	var g errgroup.Group
	for i, sel := range selections {
		ideaVenues := venuesFor(sel, venues)
		if len(ideaVenues) == 0 {
			continue
		}
		g.Go(func() error {
			raw, callErr := s.ai.GenerateText(ctx, buildContentPrompt(ideaVenues), generativeAI.GenerateOptions{
				SystemInstruction: contentSystemInstruction,
				Temperature:       s.opts.ContentTemperature,
				JSON:              true,
			})
			content, err := ParseContent(raw, callErr)
			if err != nil {
				s.logger.WarnContext(ctx, "Content generation failed, using template", slog.Int("idea", i), slog.Any("error", err))
				s.recordFallback(ctx, "content")
				content = FallbackContent(ideaVenues)
			}
			contents[i] = content
			return nil
		})
	}
	_ = g.Wait()
	return contents
}

func (s *ServiceImpl) recordFallback(ctx context.Context, stage string) {
	metrics.Get().FallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// UserMessage is the toast copy for a pipeline error.
func UserMessage(err error) (title, description string) {
	switch {
	case errors.Is(err, ErrNoVenuesFound):
		return "No venues found", "Try adjusting your filters or expanding your search radius."
	case errors.Is(err, ErrNoIdeas):
		return "Error generating ideas", "Please try again with different preferences."
	case errors.Is(err, types.ErrInvalidPreferences):
		return "Invalid preferences", err.Error()
	}
	return "Error", "Something went wrong. Please try again."
}
