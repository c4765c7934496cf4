package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-date-ideas/app/db"
	"github.com/FACorreiaa/go-date-ideas/config"
	dateGeneration "github.com/FACorreiaa/go-date-ideas/internal/api/date_generation"
	generativeAI "github.com/FACorreiaa/go-date-ideas/internal/api/generative_ai"
	"github.com/FACorreiaa/go-date-ideas/internal/api/places"
	savedIdeas "github.com/FACorreiaa/go-date-ideas/internal/api/saved_ideas"
	"github.com/FACorreiaa/go-date-ideas/internal/api/weather"
)

// Container holds all application dependencies.
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Pool              *pgxpool.Pool
	GenerationHandler *dateGeneration.HandlerImpl
	SavedIdeasHandler *savedIdeas.HandlerImpl
	PlacesHandler     *places.HandlerImpl
	WeatherHandler    *weather.HandlerImpl
}

// NewContainer runs migrations, opens the pool and wires every service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database config: %w", err)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}

	mapsClient, err := places.NewMapsClient(cfg.Maps.APIKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	placesService := places.NewServiceImpl(mapsClient, cfg.Maps.DetailsPerType, cfg.Maps.GeocodeTTL, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	generationService := dateGeneration.NewServiceImpl(
		placesService,
		placesService,
		aiClient,
		dateGeneration.OptionsFromConfig(cfg.Generation, cfg.AI),
		logger,
	)

	savedIdeasRepo := savedIdeas.NewPostgresRepository(pool, logger)
	savedIdeasService := savedIdeas.NewServiceImpl(savedIdeasRepo, logger)

	weatherService := weather.NewServiceImpl(
		&http.Client{Timeout: 10 * time.Second},
		cfg.Maps.WeatherBaseURL,
		cfg.Maps.APIKey,
		cfg.Maps.WeatherTTL,
		logger,
	)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Pool:              pool,
		GenerationHandler: dateGeneration.NewHandlerImpl(generationService, dateGeneration.NewInFlightGuard(), logger),
		SavedIdeasHandler: savedIdeas.NewHandlerImpl(savedIdeasService, logger),
		PlacesHandler:     places.NewHandlerImpl(placesService, logger),
		WeatherHandler:    weather.NewHandlerImpl(weatherService, logger),
	}, nil
}

// Close releases resources held by the container.
func (c *Container) Close() {
	c.Pool.Close()
}
