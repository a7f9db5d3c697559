package output

import (
	"context"
	"time"
)

// BrowserPort wraps one live browser tab. Higher layers only locate, wait,
// read and click through it; process lifetime belongs to the session
// manager, which is the sole caller of Close.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string

	Fill(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error

	// WaitVisible blocks until the first match becomes visible or the
	// timeout expires.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// WaitHidden blocks until the first match is invisible. A selector that
	// matches nothing counts as already hidden.
	WaitHidden(ctx context.Context, selector string, timeout time.Duration) error
	// WaitIdle waits for network quiescence, up to the timeout.
	WaitIdle(ctx context.Context, timeout time.Duration) error

	// Exists reports whether the selector currently matches an element.
	Exists(ctx context.Context, selector string) (bool, error)
	// Attribute returns the named attribute of the first match, or empty
	// string when the attribute is absent.
	Attribute(ctx context.Context, selector, name string) (string, error)
	// HTML returns the outer HTML of the first match.
	HTML(ctx context.Context, selector string) (string, error)

	Screenshot(ctx context.Context) ([]byte, error)

	Close()
}
