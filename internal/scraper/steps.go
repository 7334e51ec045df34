package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

const (
	StepNavigate          = "navigate"
	StepDismissCookies    = "dismiss_cookies"
	StepSelectAirline     = "select_airline"
	StepEnterFlightNumber = "enter_flight_number"
	StepSelectDate        = "select_date"
	StepSubmit            = "submit"
	StepExtract           = "extract"
)

type step struct {
	name     string
	required bool
	// attempts overrides Config.MaxAttempts when positive
	attempts int
	run      func(ctx context.Context, d Driver) error
}

// buildSteps returns the fixed navigation sequence for q. The extract step
// writes into result.
func (s *Scraper) buildSteps(q Query, result *models.ScrapeResult) []step {
	sel := s.config.Selectors

	return []step{
		{
			name:     StepNavigate,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.Navigate(ctx, s.config.BaseURL); err != nil {
					return fmt.Errorf("load %s: %w", s.config.BaseURL, err)
				}
				if err := d.Evaluate(ctx, removeOverlayScript(sel.OverlayClass)); err != nil {
					s.logger.Debug("overlay removal failed", "error", err)
				}
				return nil
			},
		},
		{
			name:     StepDismissCookies,
			required: false,
			attempts: 1,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.CookieButton); err != nil {
					return err
				}
				return d.Click(ctx, sel.CookieButton)
			},
		},
		{
			name:     StepSelectAirline,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.AirlineInput); err != nil {
					return err
				}
				if err := d.Clear(ctx, sel.AirlineInput); err != nil {
					return err
				}
				if err := d.SendKeys(ctx, sel.AirlineInput, q.Airline); err != nil {
					return err
				}
				if err := d.WaitVisible(ctx, sel.SuggestionItem); err != nil {
					return fmt.Errorf("suggestion menu: %w", err)
				}
				if err := d.Click(ctx, sel.SuggestionItem); err != nil {
					return err
				}
				value, err := d.Value(ctx, sel.AirlineInput)
				if err != nil {
					return err
				}
				if strings.TrimSpace(value) == "" {
					return fmt.Errorf("%w: airline input is empty after selection", ErrValueMismatch)
				}
				return nil
			},
		},
		{
			name:     StepEnterFlightNumber,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.FlightInput); err != nil {
					return err
				}
				if err := d.Clear(ctx, sel.FlightInput); err != nil {
					return err
				}
				if err := d.SendKeys(ctx, sel.FlightInput, q.FlightNumber); err != nil {
					return err
				}
				value, err := d.Value(ctx, sel.FlightInput)
				if err != nil {
					return err
				}
				if strings.TrimSpace(value) != q.FlightNumber {
					return fmt.Errorf("%w: flight number input holds %q", ErrValueMismatch, value)
				}
				return nil
			},
		},
		{
			name:     StepSelectDate,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.DateSelect); err != nil {
					return err
				}
				count, err := d.Count(ctx, sel.DateOption)
				if err != nil {
					return err
				}
				if count == 0 {
					return fmt.Errorf("%w: no date options", ErrElementNotFound)
				}
				if q.Position >= count {
					return Permanent(fmt.Errorf("%w: position %d, %d options", ErrOptionOutOfRange, q.Position, count))
				}
				if err := d.SelectIndex(ctx, sel.DateSelect, q.Position); err != nil {
					return err
				}
				index, err := d.SelectedIndex(ctx, sel.DateSelect)
				if err != nil {
					return err
				}
				if index != q.Position {
					return fmt.Errorf("%w: date index %d, want %d", ErrValueMismatch, index, q.Position)
				}
				return nil
			},
		},
		{
			name:     StepSubmit,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.SubmitButton); err != nil {
					return err
				}
				return d.Click(ctx, sel.SubmitButton)
			},
		},
		{
			name:     StepExtract,
			required: true,
			run: func(ctx context.Context, d Driver) error {
				if err := d.WaitVisible(ctx, sel.TimeValue); err != nil {
					return fmt.Errorf("results: %w", err)
				}
				html, err := d.HTML(ctx)
				if err != nil {
					return err
				}
				extracted, err := ExtractResult(html, sel)
				if err != nil {
					return err
				}
				*result = extracted
				return nil
			},
		},
	}
}

// removeOverlayScript evaluates to true whether or not the overlay exists; an
// undefined result would fail to decode.
func removeOverlayScript(class string) string {
	return fmt.Sprintf(`(function() {
		const el = document.getElementsByClassName(%q)[0];
		if (el && el.parentNode) { el.parentNode.removeChild(el); }
		return true;
	})()`, class)
}
