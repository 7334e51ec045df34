package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeDriver simulates the tracker form in memory.
type fakeDriver struct {
	mu sync.Mutex

	html     string
	options  int
	selected int
	values   map[string]string

	// selectors that never become visible
	missing map[string]bool
	// selector -> number of WaitVisible calls that fail before success
	flaky map[string]int

	calls   []string
	scripts []string
	closed  bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		html:    resultPage,
		options: 3,
		values:  make(map[string]string),
		missing: make(map[string]bool),
		flaky:   make(map[string]int),
	}
}

func (f *fakeDriver) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeDriver) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("navigate " + url)
	return ctx.Err()
}

func (f *fakeDriver) Evaluate(ctx context.Context, script string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("evaluate")
	f.scripts = append(f.scripts, script)
	return nil
}

func (f *fakeDriver) WaitVisible(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wait " + selector)

	if f.missing[selector] {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	if f.flaky[selector] > 0 {
		f.flaky[selector]--
		return errors.New("not visible yet")
	}
	return nil
}

func (f *fakeDriver) Count(ctx context.Context, selector string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options, nil
}

func (f *fakeDriver) Click(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("click " + selector)
	return nil
}

func (f *fakeDriver) Clear(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[selector] = ""
	return nil
}

func (f *fakeDriver) SendKeys(ctx context.Context, selector, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("keys " + selector)
	f.values[selector] += text
	return nil
}

func (f *fakeDriver) Value(ctx context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[selector], nil
}

func (f *fakeDriver) SelectIndex(ctx context.Context, selector string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = index
	return nil
}

func (f *fakeDriver) SelectedIndex(ctx context.Context, selector string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, nil
}

func (f *fakeDriver) HTML(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.html, nil
}

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeDriver) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeLauncher struct {
	driver *fakeDriver
	err    error
}

func (l *fakeLauncher) Launch(ctx context.Context) (Driver, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.driver, nil
}
