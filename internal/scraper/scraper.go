package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
	"github.com/dharmasatrya/flightdelays/pkg/metrics"
)

const StepLaunch = "launch"

// launchAllowance covers starting the browser before the first step runs.
const launchAllowance = 30 * time.Second

type Config struct {
	BaseURL     string
	Selectors   Selectors
	StepTimeout time.Duration
	MaxAttempts int
	RetryDelays []time.Duration
}

type Query struct {
	Airline      string
	FlightNumber string
	Position     int
}

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

type StepReport struct {
	Step     string        `json:"step"`
	Outcome  Outcome       `json:"outcome"`
	Attempts int           `json:"attempts"`
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Report records every step of one session, including the ones never reached.
type Report struct {
	SessionID string        `json:"session_id"`
	Steps     []StepReport  `json:"steps"`
	Elapsed   time.Duration `json:"elapsed"`
}

func (r *Report) Outcome(step string) (Outcome, bool) {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Outcome, true
		}
	}
	return "", false
}

type Scraper struct {
	launcher Launcher
	config   Config
	logger   logger.Logger
	metrics  *metrics.Metrics
}

func New(launcher Launcher, cfg Config, log logger.Logger, m *metrics.Metrics) *Scraper {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 15 * time.Second
	}
	if len(cfg.RetryDelays) == 0 {
		cfg.RetryDelays = []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
	}
	return &Scraper{
		launcher: launcher,
		config:   cfg,
		logger:   log,
		metrics:  m,
	}
}

// Scrape runs one browser session through the search form and reads the
// result page. A required step failing yields a *StepError; the session is
// closed on every path.
func (s *Scraper) Scrape(ctx context.Context, q Query) (models.ScrapeResult, *Report, error) {
	start := time.Now()
	report := &Report{SessionID: uuid.NewString()}
	log := s.logger.With("session_id", report.SessionID, "airline", q.Airline, "flight_number", q.FlightNumber)

	defer func() {
		report.Elapsed = time.Since(start)
		s.metrics.ScrapeDuration.Observe(report.Elapsed.Seconds())
	}()

	driver, err := s.launcher.Launch(ctx)
	if err != nil {
		s.metrics.ScrapeSteps.WithLabelValues(StepLaunch, string(OutcomeFailed)).Inc()
		log.Error("browser launch failed", "error", err)
		return models.ScrapeResult{}, report, NewStepError(StepLaunch, 1, err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Warn("browser close failed", "error", err)
		}
	}()

	var result models.ScrapeResult
	steps := s.buildSteps(q, &result)

	for i, st := range steps {
		stepStart := time.Now()
		attempts, err := s.runStep(ctx, driver, st, log)
		entry := StepReport{
			Step:     st.name,
			Outcome:  OutcomeOK,
			Attempts: attempts,
			Elapsed:  time.Since(stepStart),
		}

		if err != nil {
			entry.Outcome = OutcomeFailed
			entry.Error = err.Error()
		}
		report.Steps = append(report.Steps, entry)
		s.metrics.ScrapeSteps.WithLabelValues(st.name, string(entry.Outcome)).Inc()

		if err == nil {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			skipRemaining(report, steps[i+1:])
			return models.ScrapeResult{}, report, ctxErr
		}

		if !st.required {
			log.Warn("optional step failed", "step", st.name, "attempts", attempts, "error", err)
			continue
		}

		log.Error("step failed", "step", st.name, "attempts", attempts, "error", err)
		skipRemaining(report, steps[i+1:])
		return models.ScrapeResult{}, report, NewStepError(st.name, attempts, err)
	}

	log.Info("scrape completed", "elapsed_ms", time.Since(start).Milliseconds())
	return result, report, nil
}

// SessionBudget is the longest a session can legitimately run: every step
// exhausting its attempts and retry delays, plus browser launch.
func (s *Scraper) SessionBudget() time.Duration {
	var result models.ScrapeResult
	budget := launchAllowance
	for _, st := range s.buildSteps(Query{}, &result) {
		n := s.attemptsFor(st)
		budget += time.Duration(n) * s.config.StepTimeout
		for attempt := 1; attempt < n; attempt++ {
			budget += s.retryDelay(attempt)
		}
	}
	return budget
}

func (s *Scraper) attemptsFor(st step) int {
	if st.attempts > 0 {
		return st.attempts
	}
	return s.config.MaxAttempts
}

// retryDelay is the pause before the given zero-based attempt. The last
// configured delay repeats.
func (s *Scraper) retryDelay(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(s.config.RetryDelays) {
		idx = len(s.config.RetryDelays) - 1
	}
	return s.config.RetryDelays[idx]
}

func (s *Scraper) runStep(ctx context.Context, d Driver, st step, log logger.Logger) (int, error) {
	maxAttempts := s.attemptsFor(st)

	var lastErr error
	attempt := 0
	for ; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		default:
		}

		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay(attempt)):
			case <-ctx.Done():
				return attempt, ctx.Err()
			}
		}

		stepCtx, cancel := context.WithTimeout(ctx, s.config.StepTimeout)
		err := st.run(stepCtx, d)
		cancel()
		if err == nil {
			return attempt + 1, nil
		}

		lastErr = err
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			lastErr = fmt.Errorf("timed out after %s: %w", s.config.StepTimeout, err)
		}
		log.Debug("step attempt failed", "step", st.name, "attempt", attempt+1, "error", err)

		if IsPermanent(err) {
			return attempt + 1, lastErr
		}
	}

	return attempt, lastErr
}

func skipRemaining(report *Report, rest []step) {
	for _, st := range rest {
		report.Steps = append(report.Steps, StepReport{Step: st.name, Outcome: OutcomeSkipped})
	}
}
