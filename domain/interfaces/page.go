package interfaces

import (
	"context"
	"time"
)

// Page defines the browser capability the quiz driver needs.
// Selectors are XPath expressions.
type Page interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// WaitForElement waits up to timeout for an element to be present in the DOM.
	// It returns entities.ErrNotFound when the wait times out.
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// FindElement looks an element up without waiting.
	// It returns entities.ErrNotFound when nothing matches.
	FindElement(ctx context.Context, selector string) (Element, error)

	// Close releases the browser session
	Close() error
}

// Element is a handle to a single element on the page
type Element interface {
	// Text returns the rendered text (innerText)
	Text(ctx context.Context) (string, error)

	// OuterHTML returns the raw markup of the element
	OuterHTML(ctx context.Context) (string, error)

	// Attribute returns an attribute value and whether it is present
	Attribute(ctx context.Context, name string) (string, bool, error)

	// IsDisplayed checks if the element is currently visible
	IsDisplayed(ctx context.Context) (bool, error)

	// ScrollIntoView scrolls the element into the viewport
	ScrollIntoView(ctx context.Context) error

	// WaitVisible waits until the element is visible
	WaitVisible(ctx context.Context, timeout time.Duration) error

	// WaitClickable waits until the element is visible, enabled and receives pointer events
	WaitClickable(ctx context.Context, timeout time.Duration) error

	// Click clicks the element
	Click(ctx context.Context) error

	// PressKey sends one keystroke to the focused element
	PressKey(ctx context.Context, key string) error
}
