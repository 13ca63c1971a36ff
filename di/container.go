package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tour-guide-server/api"
	"tour-guide-server/api/prediction"
	"tour-guide-server/config"
	"tour-guide-server/dao/redis"
	"tour-guide-server/db"
	"tour-guide-server/logger"
	"tour-guide-server/metrics"
	"tour-guide-server/recorder"
	"tour-guide-server/server"
	"tour-guide-server/server/handlers"
	services "tour-guide-server/service"
	"tour-guide-server/service/source"
	"tour-guide-server/util"
)

// Container holds all application dependencies.
type Container struct {
	RedisClient           db.RedisClient
	RedisSpotDao          *redis.RedisSpotDAO
	PredictionAPI         prediction.PredictionAPI
	SpotSource            source.SpotSource
	Recorder              recorder.Recorder
	Metrics               *metrics.Metrics
	SpotService           *services.SpotService
	SpotsRefresherService *services.SpotsRefresherService
	SpotHandler           *handlers.SpotHandler
	ChartHandler          *handlers.ChartHandler
	MuxRouter             *mux.Router
	Router                *server.Router
	TourGuideHttpServer   *server.TourGuideHttpServer

	redisInternalClient *goredis.Client
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger.L().Info("initializing container",
		zap.String("env", cfg.Env), zap.String("data_source", cfg.DataSource.Mode))
	ctx := context.Background()

	// Initialize Redis client
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient := db.NewGeoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		redisInternalClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Address, err)
	}

	redisSpotDao := redis.NewRedisSpotDAO(redisClient)

	// Initialize prediction API and spot source
	predictionApi, spotSource, err := newSpotSource(ctx, cfg)
	if err != nil {
		redisInternalClient.Close()
		return nil, err
	}

	// Initialize history recorder; history is optional
	var rec recorder.Recorder
	sqliteRecorder, err := recorder.NewSQLiteRecorder(cfg.History.SQLitePath)
	if err != nil {
		logger.L().Warn("History recorder unavailable, snapshots will not be recorded",
			zap.String("path", cfg.History.SQLitePath), zap.Error(err))
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sqliteRecorder
	}

	m := metrics.New()

	spotService := services.NewSpotService(redisSpotDao, rec, predictionApi)
	refresher := services.NewSpotsRefresherService(redisSpotDao, spotSource, rec, m)

	spotHandler := handlers.NewSpotHandler(spotService, refresher)
	chartHandler := handlers.NewChartHandler(spotService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(spotHandler, chartHandler, m, muxRouter)
	httpServer := server.NewTourGuideHttpServer(router, muxRouter, cfg.Server.Address, cfg.Server.ShutdownTimeout)

	return &Container{
		RedisClient:           redisClient,
		RedisSpotDao:          redisSpotDao,
		PredictionAPI:         predictionApi,
		SpotSource:            spotSource,
		Recorder:              rec,
		Metrics:               m,
		SpotService:           spotService,
		SpotsRefresherService: refresher,
		SpotHandler:           spotHandler,
		ChartHandler:          chartHandler,
		MuxRouter:             muxRouter,
		Router:                router,
		TourGuideHttpServer:   httpServer,
		redisInternalClient:   redisInternalClient,
	}, nil
}

// CATALOG_CHECK_TIMEOUT bounds the startup comparison of the site catalog with the prediction API.
const CATALOG_CHECK_TIMEOUT = 5 * time.Second

// newSpotSource picks the data source. In fixture mode the prediction API is
// served from fixtures too so the model performance card still has data.
func newSpotSource(ctx context.Context, cfg *config.Config) (prediction.PredictionAPI, source.SpotSource, error) {
	if cfg.DataSource.Mode == config.DATA_SOURCE_FIXTURE {
		logger.L().Info("Using fixture spot source")
		resourcesDir := config.GetResourcePath("")
		return prediction.NewPredictionApiClientMock(resourcesDir),
			source.NewFixtureSpotSource(config.GetResourcePath(config.TOURIST_SPOTS_RESOURCE)),
			nil
	}

	logger.L().Info("Using prediction API spot source", zap.String("base_url", cfg.DataSource.BaseURL))
	siteCatalog, err := util.ReadSiteCatalog(config.GetResourcePath(config.TOURIST_SITES_CATALOG_RESOURCE))
	if err != nil {
		return nil, nil, fmt.Errorf("load site catalog: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	httpClient := api.NewHTTPClient(cfg.DataSource.BaseURL, cfg.DataSource.Timeout)
	predictionApi := prediction.NewPredictionApiClient(httpClient)

	// A disagreeing or unreachable API is not fatal; the refresher retries on schedule.
	checkCtx, cancel := context.WithTimeout(ctx, CATALOG_CHECK_TIMEOUT)
	defer cancel()
	mismatches, err := source.CheckCatalog(checkCtx, predictionApi, siteCatalog)
	if err != nil {
		logger.L().Warn("Could not check site catalog against prediction API", zap.Error(err))
	} else if len(mismatches) == 0 {
		logger.L().Info("Site catalog matches prediction API", zap.Int("sites", len(siteCatalog.Sites)))
	}

	return predictionApi,
		source.NewPredictionSpotSource(predictionApi, siteCatalog, cfg.Congestion.Thresholds, loc),
		nil
}

// Close releases the recorder and the Redis connection.
func (c *Container) Close() {
	if err := c.Recorder.Close(); err != nil {
		logger.L().Warn("Failed to close recorder", zap.Error(err))
	}
	if err := c.redisInternalClient.Close(); err != nil {
		logger.L().Warn("Failed to close Redis client", zap.Error(err))
	}
}
