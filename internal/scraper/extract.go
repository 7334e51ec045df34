package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

// ExtractResult reads scheduled/actual times and terminal/gate from a result
// page. The first two matches of each selector are used; fewer than two, or
// an empty value, fails the whole extraction.
func ExtractResult(html string, sel Selectors) (models.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ScrapeResult{}, fmt.Errorf("parse result page: %w", err)
	}

	times, err := firstTwo(doc, sel.TimeValue, "scheduled/actual time")
	if err != nil {
		return models.ScrapeResult{}, err
	}
	terminalGate, err := firstTwo(doc, sel.TerminalGateValue, "terminal/gate")
	if err != nil {
		return models.ScrapeResult{}, err
	}

	return models.ScrapeResult{
		ScheduledTime: times[0],
		ActualTime:    times[1],
		Terminal:      terminalGate[0],
		Gate:          terminalGate[1],
	}, nil
}

func firstTwo(doc *goquery.Document, selector, what string) ([2]string, error) {
	var out [2]string

	nodes := doc.Find(selector)
	if nodes.Length() < 2 {
		return out, fmt.Errorf("%w: %s (%s matched %d)", ErrElementNotFound, what, selector, nodes.Length())
	}

	for i := range out {
		text := strings.Join(strings.Fields(nodes.Eq(i).Text()), " ")
		if text == "" {
			return out, fmt.Errorf("%w: %s #%d is empty", ErrElementNotFound, what, i)
		}
		out[i] = text
	}
	return out, nil
}
