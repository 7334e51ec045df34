package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharmasatrya/flightdelays/internal/airports"
	"github.com/dharmasatrya/flightdelays/internal/cache"
	"github.com/dharmasatrya/flightdelays/internal/comparison"
	"github.com/dharmasatrya/flightdelays/internal/config"
	"github.com/dharmasatrya/flightdelays/internal/handler"
	"github.com/dharmasatrya/flightdelays/internal/predictor"
	"github.com/dharmasatrya/flightdelays/internal/ratelimit"
	"github.com/dharmasatrya/flightdelays/internal/scraper"
	"github.com/dharmasatrya/flightdelays/internal/store"
	"github.com/dharmasatrya/flightdelays/internal/weather"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
	"github.com/dharmasatrya/flightdelays/pkg/metrics"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	m := metrics.NewMetrics("flightdelays", prometheus.DefaultRegisterer)

	airportTable, err := airports.LoadFile(cfg.AirportsCSV)
	if err != nil {
		log.Fatal("Failed to load airports", "path", cfg.AirportsCSV, "error", err)
	}
	log.Info("Loaded airport table", "airports", airportTable.Len())

	model, err := predictor.Load(cfg.ModelDir)
	if err != nil {
		log.Fatal("Failed to load models", "dir", cfg.ModelDir, "error", err)
	}
	log.Info("Loaded prediction models", "dir", cfg.ModelDir)

	rateLimiter := ratelimit.NewHostLimiterWithDefaults()
	rateLimiter.SetHostLimit(ratelimit.HostOf(cfg.Scraper.BaseURL), cfg.Scraper.RPS, cfg.Scraper.Burst)

	launcher := scraper.NewChromeLauncher(scraper.ChromeOptions{
		ExecPath: cfg.Scraper.ChromeBin,
		Proxy:    cfg.Scraper.Proxy,
		Headless: cfg.Scraper.Headless,
	})
	flightScraper := scraper.New(launcher, scraper.Config{
		BaseURL:     cfg.Scraper.BaseURL,
		Selectors:   cfg.Scraper.Selectors,
		StepTimeout: cfg.Scraper.StepTimeout,
		MaxAttempts: cfg.Scraper.MaxAttempts,
		RetryDelays: []time.Duration{
			500 * time.Millisecond,
			time.Second,
			2 * time.Second,
		},
	}, log, m)

	sessionTimeout := cfg.Scraper.SessionTimeout
	if sessionTimeout <= 0 {
		sessionTimeout = flightScraper.SessionBudget()
	}
	log.Info("Scraper configured", "host", ratelimit.HostOf(cfg.Scraper.BaseURL), "session_timeout", sessionTimeout)

	var comparisonCache cache.Cache
	if cfg.CacheEnabled {
		redisCfg := cache.DefaultRedisConfig()
		redisCfg.Host = cfg.RedisHost
		redisCfg.Port = cfg.RedisPort
		redisCfg.Password = cfg.RedisPassword
		if cfg.RedisTTL > 0 {
			redisCfg.TTL = cfg.RedisTTL
		}
		redisCache, err := cache.NewRedisCache(redisCfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		comparisonCache = redisCache
		log.Info("Redis cache enabled", "addr", cfg.RedisHost+":"+cfg.RedisPort, "ttl", cfg.RedisTTL)
	} else {
		comparisonCache = cache.NewNoOpCache()
		log.Info("Cache disabled")
	}
	defer comparisonCache.Close()

	var observations store.ObservationRepository = store.NewNoOpObservationRepository()
	if cfg.MongoURI != "" {
		client, err := store.NewMongoClient(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer client.Disconnect(context.Background())

		repo, err := store.NewMongoObservationRepository(context.Background(), client.Database(cfg.MongoDB))
		if err != nil {
			log.Fatal("Failed to prepare observation store", "error", err)
		}
		observations = repo
		log.Info("Observation store enabled", "database", cfg.MongoDB)
	}

	comparisonService := comparison.NewService(flightScraper, comparisonCache, observations, comparison.Config{
		BaseURL:     cfg.Scraper.BaseURL,
		Timeout:     sessionTimeout,
		MaxSessions: cfg.Scraper.MaxSessions,
		RateLimiter: rateLimiter,
	}, log, m)

	weatherClient := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, log)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	airportHandler := handler.NewAirportHandler(airportTable)
	predictHandler := handler.NewPredictHandler(model, log, m)
	comparisonHandler := handler.NewComparisonHandler(comparisonService, log)
	weatherHandler := handler.NewWeatherHandler(weatherClient)

	e.GET("/", handler.WelcomeHandler)
	e.GET("/airport", airportHandler.Get)
	e.GET("/airport/", airportHandler.Get)
	e.GET("/distance", handler.DistanceHandler)
	e.POST("/predict", predictHandler.Predict)
	e.GET("/comparison", comparisonHandler.Compare)
	e.GET("/weather", weatherHandler.Get)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		log.Info("Starting flight delays server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
}
