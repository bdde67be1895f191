package runner

import (
	"context"

	"github.com/sznuper/keeper/internal/browser"
	"github.com/sznuper/keeper/internal/config"
	"github.com/sznuper/keeper/internal/dashboard"
	"github.com/sznuper/keeper/internal/inspect"
)

// Session is one exclusive browser session for one account.
type Session interface {
	dashboard.Driver
	Page() inspect.Page
	Screenshot(path string) error
	Close() error
}

// Opener starts a fresh Session.
type Opener func(ctx context.Context) (Session, error)

// BrowserOpener returns an Opener backed by a go-rod stealth page on the
// browser named by opts.Browser.
func BrowserOpener(opts config.Options, d config.Durations) (Opener, error) {
	target, err := browser.Resolve(opts.Browser)
	if err != nil {
		return nil, err
	}
	bopts := browser.Options{
		Headless:    opts.IsHeadless(),
		WaitTimeout: d.Wait,
	}
	return func(ctx context.Context) (Session, error) {
		s, err := browser.Open(ctx, target, bopts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}, nil
}
