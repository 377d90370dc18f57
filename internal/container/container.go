package container

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/gateway"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	Gateway          *gateway.Gateway
	Planner          *planner.ServiceImpl
	ItineraryHandler *itinerary.Handler
}

// NewContainer wires the gateway, planner and itinerary store around an open pool.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	gw := NewGateway(cfg, logger)
	drafter := NewDrafter(ctx, cfg, logger)
	plannerService := planner.NewService(gw, drafter, logger)

	itineraryRepo := itinerary.NewRepository(pool, logger)
	itineraryService := itinerary.NewServiceImpl(itineraryRepo, plannerService, cfg.Cache.TTL, cfg.Cache.CleanupInterval, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		Gateway:          gw,
		Planner:          plannerService,
		ItineraryHandler: itineraryHandler,
	}, nil
}

// NewGateway builds the source chains. Live sources are only added when configured;
// the synthesizer always closes both chains.
func NewGateway(cfg *config.Config, logger *slog.Logger) *gateway.Gateway {
	var poiSources []gateway.POISource
	poiCfg := cfg.Gateway.POI
	if poiCfg.Key != "" && poiCfg.BaseURL != "" {
		poiSources = append(poiSources, gateway.NewAMapClient(
			poiCfg.Key, poiCfg.BaseURL, poiCfg.PageSize, poiCfg.QPS, poiCfg.Burst, poiCfg.Timeout, logger,
		))
	} else {
		logger.Warn("POI provider key not configured, using synthesized candidates only")
	}

	var fareSources []gateway.FareSource
	fareCfg := cfg.Gateway.Fare
	if fareCfg.BaseURL != "" {
		fareSources = append(fareSources, gateway.NewFareClient(fareCfg.Key, fareCfg.BaseURL, fareCfg.Timeout))
	}

	return gateway.New(poiSources, fareSources, poiCfg.Timeout, logger).WithFareTimeout(fareCfg.Timeout)
}

// NewDrafter returns the Gemini drafter when a key is configured, else the template drafter.
func NewDrafter(ctx context.Context, cfg *config.Config, logger *slog.Logger) generativeAI.Drafter {
	client, err := generativeAI.NewAIClient(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
	if err != nil {
		if errors.Is(err, generativeAI.ErrNoAPIKey) {
			logger.Info("Gemini key not configured, using template descriptions")
		} else {
			logger.Warn("Failed to create Gemini client, using template descriptions", slog.Any("error", err))
		}
		return generativeAI.TemplateDrafter{}
	}
	return generativeAI.NewGeminiDrafter(client, logger).WithTimeout(cfg.GenAI.Timeout)
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
