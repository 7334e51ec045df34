package scraper

import "context"

// Driver is the subset of browser automation the steps rely on. Selectors are
// CSS; single-element calls act on the first match.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string) error
	WaitVisible(ctx context.Context, selector string) error
	Count(ctx context.Context, selector string) (int, error)
	Click(ctx context.Context, selector string) error
	Clear(ctx context.Context, selector string) error
	SendKeys(ctx context.Context, selector, text string) error
	Value(ctx context.Context, selector string) (string, error)
	SelectIndex(ctx context.Context, selector string, index int) error
	SelectedIndex(ctx context.Context, selector string) (int, error)
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Launcher opens a fresh browser session per scrape.
type Launcher interface {
	Launch(ctx context.Context) (Driver, error)
}
