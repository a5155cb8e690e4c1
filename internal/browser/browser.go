// Package browser abstracts the live browser session behind a small
// capability interface so the automation engine stays deterministic and
// testable. The engine only ever navigates, acts on a selector, or reads
// state; it never touches the browser process directly.
package browser

import (
	"context"
	"fmt"
)

// Driver is the capability surface the engine consumes. Implementations own
// the per-action timeout policy; a timed-out action surfaces as a regular
// error. All methods honor context cancellation.
type Driver interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// Fill clears and types into the first element matching the selector.
	Fill(ctx context.Context, selector, value string) error
	// Text returns the visible text of the first element matching the selector.
	Text(ctx context.Context, selector string) (string, error)
	// Exists reports whether any element matches the selector right now,
	// without waiting for one to appear.
	Exists(ctx context.Context, selector string) (bool, error)
	// WaitVisible blocks until an element matching the selector is visible.
	WaitVisible(ctx context.Context, selector string) error
	// PageHTML returns the full rendered HTML of the current page.
	PageHTML(ctx context.Context) (string, error)
	// Location returns the current page URL.
	Location(ctx context.Context) (string, error)
	// Close shuts down the browser session.
	Close() error
}

// Error wraps a failed browser action with the operation and selector that
// produced it.
type Error struct {
	Op       string
	Selector string
	Cause    error
}

func (e *Error) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("browser %s %q: %v", e.Op, e.Selector, e.Cause)
	}
	return fmt.Sprintf("browser %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
