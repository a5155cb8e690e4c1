// Package browser - chromedp.go provides the Chrome-backed Driver.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultActionTimeout bounds each individual browser action.
const DefaultActionTimeout = 10 * time.Second

// defaultUserAgent mirrors a desktop Chrome session; LinkedIn serves a
// degraded page to obvious automation user agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ChromeOptions configures the Chrome session.
type ChromeOptions struct {
	Headless      bool
	ActionTimeout time.Duration
	UserAgent     string
}

// Chrome is a chromedp-backed Driver. One Chrome owns one browser session;
// it is not safe for concurrent use, matching the engine's single-flow model.
type Chrome struct {
	ctx     context.Context
	cancels []context.CancelFunc
	timeout time.Duration
}

var _ Driver = (*Chrome)(nil)

// NewChrome launches a Chrome session. Requires Chrome/Chromium on the host.
func NewChrome(ctx context.Context, opts ChromeOptions) (*Chrome, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	c := &Chrome{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		timeout: opts.ActionTimeout,
	}

	// Start the browser process up front so launch failures surface here
	// rather than on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		c.close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return c, nil
}

// run executes chromedp actions under the per-action timeout.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate implements Driver.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	err := c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
	if err != nil {
		return &Error{Op: "navigate", Cause: err}
	}
	return nil
}

// Click implements Driver.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return &Error{Op: "click", Selector: selector, Cause: err}
	}
	return nil
}

// Fill implements Driver.
func (c *Chrome) Fill(ctx context.Context, selector, value string) error {
	err := c.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return &Error{Op: "fill", Selector: selector, Cause: err}
	}
	return nil
}

// Text implements Driver.
func (c *Chrome) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := c.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", &Error{Op: "text", Selector: selector, Cause: err}
	}
	return text, nil
}

// Exists implements Driver. It evaluates a querySelector probe instead of a
// chromedp wait so a missing element answers immediately rather than after
// the action timeout.
func (c *Chrome) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	probe := fmt.Sprintf("document.querySelector(%q) !== null", selector)
	if err := c.run(ctx, chromedp.Evaluate(probe, &found)); err != nil {
		return false, &Error{Op: "exists", Selector: selector, Cause: err}
	}
	return found, nil
}

// WaitVisible implements Driver.
func (c *Chrome) WaitVisible(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return &Error{Op: "wait", Selector: selector, Cause: err}
	}
	return nil
}

// PageHTML implements Driver.
func (c *Chrome) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &Error{Op: "html", Cause: err}
	}
	return html, nil
}

// Location implements Driver.
func (c *Chrome) Location(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", &Error{Op: "location", Cause: err}
	}
	return loc, nil
}

// Close implements Driver.
func (c *Chrome) Close() error {
	c.close()
	return nil
}

func (c *Chrome) close() {
	for _, cancel := range c.cancels {
		cancel()
	}
}
