package scraper

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	ExecPath string
	Proxy    string
	Headless bool
}

// ChromeLauncher starts one Chrome process per session.
type ChromeLauncher struct {
	opts ChromeOptions
}

func NewChromeLauncher(opts ChromeOptions) *ChromeLauncher {
	return &ChromeLauncher{opts: opts}
}

func (l *ChromeLauncher) Launch(ctx context.Context) (Driver, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
	)
	if l.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.opts.ExecPath))
	}
	if l.opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(l.opts.Proxy))
	}

	// The browser outlives individual step contexts, so it hangs off a
	// context that is only cancelled by Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &chromeDriver{
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

type chromeDriver struct {
	browserCtx context.Context
	cancel     context.CancelFunc
}

// run executes actions on the browser tab, bounded by the caller's ctx.
func (d *chromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.browserCtx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *chromeDriver) Evaluate(ctx context.Context, script string) error {
	var res any
	return d.run(ctx, chromedp.Evaluate(script, &res))
}

func (d *chromeDriver) WaitVisible(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (d *chromeDriver) Count(ctx context.Context, selector string) (int, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (d *chromeDriver) Click(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (d *chromeDriver) Clear(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.Clear(selector, chromedp.ByQuery))
}

func (d *chromeDriver) SendKeys(ctx context.Context, selector, text string) error {
	return d.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

func (d *chromeDriver) Value(ctx context.Context, selector string) (string, error) {
	var value string
	if err := d.run(ctx, chromedp.Value(selector, &value, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return value, nil
}

func (d *chromeDriver) SelectIndex(ctx context.Context, selector string, index int) error {
	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%s);
		if (!el) { return false; }
		el.selectedIndex = %d;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, strconv.Quote(selector), index)

	var ok bool
	if err := d.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return nil
}

func (d *chromeDriver) SelectedIndex(ctx context.Context, selector string) (int, error) {
	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%s);
		return el ? el.selectedIndex : -1;
	})()`, strconv.Quote(selector))

	var index int
	if err := d.run(ctx, chromedp.Evaluate(script, &index)); err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return index, nil
}

func (d *chromeDriver) HTML(ctx context.Context) (string, error) {
	var html string
	if err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (d *chromeDriver) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}
