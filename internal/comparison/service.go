package comparison

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dharmasatrya/flightdelays/internal/cache"
	"github.com/dharmasatrya/flightdelays/internal/clock"
	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/internal/ratelimit"
	"github.com/dharmasatrya/flightdelays/internal/scraper"
	"github.com/dharmasatrya/flightdelays/internal/store"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
	"github.com/dharmasatrya/flightdelays/pkg/metrics"
)

var (
	// ErrUnavailable means no session could be started in time.
	ErrUnavailable    = errors.New("scraper unavailable")
	ErrUnreadableTime = errors.New("scraped time could not be read")
)

type Scraper interface {
	Scrape(ctx context.Context, q scraper.Query) (models.ScrapeResult, *scraper.Report, error)
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxSessions int
	RateLimiter *ratelimit.HostLimiter
}

type Service struct {
	scraper      Scraper
	cache        cache.Cache
	observations store.ObservationRepository
	config       Config
	sessions     chan struct{}
	logger       logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(s Scraper, c cache.Cache, obs store.ObservationRepository, cfg Config, log logger.Logger, m *metrics.Metrics) *Service {
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 1
	}
	return &Service{
		scraper:      s,
		cache:        c,
		observations: obs,
		config:       cfg,
		sessions:     make(chan struct{}, cfg.MaxSessions),
		logger:       log,
		metrics:      m,
		now:          time.Now,
	}
}

// Compare returns scheduled vs actual times for a flight, scraping the
// tracker unless a result for the same flight and day is cached.
func (s *Service) Compare(ctx context.Context, req models.ComparisonRequest) (*models.ComparisonResult, error) {
	now := s.now()
	key := cache.NewKey(req, now)

	if cached, found := s.cache.Get(ctx, key); found {
		cached.CacheHit = true
		s.metrics.ComparisonsTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	select {
	case s.sessions <- struct{}{}:
	case <-ctx.Done():
		return nil, s.unavailable(ctx.Err())
	}
	defer func() { <-s.sessions }()

	if s.config.RateLimiter != nil {
		if err := s.config.RateLimiter.Wait(ctx, s.config.BaseURL); err != nil {
			return nil, s.unavailable(err)
		}
	}

	scraped, report, err := s.scraper.Scrape(ctx, scraper.Query{
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		Position:     req.Position,
	})
	if err != nil {
		var stepErr *scraper.StepError
		if !errors.As(err, &stepErr) && ctx.Err() != nil {
			return nil, s.unavailable(err)
		}
		s.metrics.ComparisonsTotal.WithLabelValues("scrape_failed").Inc()
		s.metrics.ErrorsCount.WithLabelValues("scrape").Inc()
		if report != nil {
			s.logger.Warn("scrape failed", "session_id", report.SessionID, "error", err)
		}
		return nil, err
	}

	delta, err := clock.DeltaMinutes(scraped.ScheduledTime, scraped.ActualTime)
	if err != nil {
		s.metrics.ComparisonsTotal.WithLabelValues("unreadable").Inc()
		return nil, fmt.Errorf("%w: %w", ErrUnreadableTime, err)
	}

	result := &models.ComparisonResult{
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		Position:     req.Position,
		ScrapeResult: scraped,
		Duration:     delta,
		Status:       Classify(delta),
		ObservedAt:   now.UTC(),
	}
	s.metrics.ComparisonsTotal.WithLabelValues(result.Status).Inc()

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("cache set failed", "error", err)
	}
	if err := s.observations.Upsert(ctx, store.NewObservation(result)); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("observation_upsert").Inc()
		s.logger.Warn("observation not saved", "error", err)
	}

	return result, nil
}

func (s *Service) unavailable(err error) error {
	s.metrics.ComparisonsTotal.WithLabelValues("unavailable").Inc()
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Classify maps actual minus scheduled minutes to a status.
func Classify(delta int) string {
	switch {
	case delta > 0:
		return models.StatusDelay
	case delta < 0:
		return models.StatusInAdvance
	default:
		return models.StatusNoDelay
	}
}
