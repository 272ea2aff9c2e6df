package interfaces

import (
	"context"
	"time"

	"ticket_rehearsal/domain/entities"
)

// Page defines the browser page surface the purchase flow drives.
// Find methods build lazy handles and never fail by themselves; the
// element decides success when it is waited on or acted upon.
type Page interface {
	// Navigate opens a URL and waits for DOMContentLoaded
	Navigate(ctx context.Context, url string) error

	// URL returns the current page URL
	URL() string

	// Content returns the full page markup
	Content(ctx context.Context) (string, error)

	// Screenshot captures the page as PNG bytes
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)

	// Evaluate runs a script in the page and returns its result
	Evaluate(ctx context.Context, script string) (interface{}, error)

	// FindByRole locates the first element with the given accessibility role and name
	FindByRole(role string, name string) Element

	// FindByLabel locates the first form control associated with the label text
	FindByLabel(text string, exact bool) Element

	// FindByText locates the first element containing the given text
	FindByText(text string, exact bool) Element

	// FindByPlaceholder locates the first input with the given placeholder
	FindByPlaceholder(text string) Element

	// FindBySelector locates the first element matching a CSS or xpath selector
	FindBySelector(selector string) Element

	// FindAll resolves every element matching the selector right now
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is a handle on a single page element
type Element interface {
	// WaitVisible blocks until the element is visible or the timeout expires
	WaitVisible(ctx context.Context, timeout time.Duration) error

	// WaitAttached blocks until the element is attached to the DOM
	WaitAttached(ctx context.Context, timeout time.Duration) error

	// Click clicks the element
	Click(ctx context.Context, timeout time.Duration) error

	// Fill replaces the element's value with text
	Fill(ctx context.Context, text string, timeout time.Duration) error

	// Press sends a single key to the element
	Press(ctx context.Context, key string, timeout time.Duration) error

	// Check ticks a checkbox, a no-op when already checked
	Check(ctx context.Context, timeout time.Duration) error

	// IsChecked reports whether a checkbox is ticked
	IsChecked(ctx context.Context) (bool, error)

	// IsEnabled reports whether the element accepts interaction
	IsEnabled(ctx context.Context) (bool, error)

	// ScrollIntoView scrolls the element into the viewport
	ScrollIntoView(ctx context.Context) error

	// Text returns the element's rendered text
	Text(ctx context.Context) (string, error)

	// Attribute returns an attribute value, empty when absent
	Attribute(ctx context.Context, name string) (string, error)

	// BoundingBox returns the element's box, nil when not rendered
	BoundingBox(ctx context.Context) (*entities.Box, error)

	// Screenshot captures just this element as PNG bytes
	Screenshot(ctx context.Context) ([]byte, error)

	// SelectValue picks a select option by its value attribute
	SelectValue(ctx context.Context, value string, timeout time.Duration) error

	// SelectLabel picks a select option by its display text
	SelectLabel(ctx context.Context, label string, timeout time.Duration) error

	// FindBySelector locates the first matching descendant or xpath-related element
	FindBySelector(selector string) Element

	// FindAll resolves every matching descendant right now
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// Evaluate runs a script with this element as its argument
	Evaluate(ctx context.Context, script string) (interface{}, error)
}
