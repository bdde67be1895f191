package inspect

import "context"

// Page is the read/trigger surface of a loaded server detail page.
type Page interface {
	// FindAll returns every element matching a CSS selector. No match is not
	// an error.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Text returns the rendered text of the whole document.
	Text(ctx context.Context) (string, error)
	// HTML returns a snapshot of the document markup.
	HTML(ctx context.Context) (string, error)
}

// Element is a single interactive control on the page.
type Element interface {
	Text() (string, error)
	// Trigger activates the control from script, bypassing overlays that
	// would intercept a pointer click.
	Trigger() error
}
