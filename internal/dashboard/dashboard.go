package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the hosting dashboard keeper drives.
const DefaultBaseURL = "https://www.pella.app"

// Driver is the browser surface the login and navigation flow needs.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	ClickText(ctx context.Context, selector, jsRegex string) error
	WaitVisible(ctx context.Context, selector string) error
	WaitURL(ctx context.Context, fragment string) error
	WaitStable(ctx context.Context, d time.Duration) error
}

// Site addresses one dashboard deployment.
type Site struct {
	BaseURL string
	// Settle is how long the DOM must stay unchanged before the server page
	// counts as rendered.
	Settle time.Duration
}

// New returns a Site for baseURL, or the default dashboard when empty.
func New(baseURL string) *Site {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Site{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Settle:  time.Second,
	}
}

// LoginURL returns the sign-in page.
func (s *Site) LoginURL() string {
	return s.BaseURL + "/login"
}

// ServerURL returns the detail page of a server.
func (s *Site) ServerURL(serverID string) string {
	return s.BaseURL + "/server/" + url.PathEscape(serverID)
}

// Login signs in through the two-step form: identity, Continue, secret,
// Continue, then waits for the dashboard.
func (s *Site) Login(ctx context.Context, d Driver, identity, secret string) error {
	if err := d.Navigate(ctx, s.LoginURL()); err != nil {
		return err
	}
	if err := d.Fill(ctx, EmailInput, identity); err != nil {
		return err
	}
	if err := d.ClickText(ctx, SubmitButton, ContinueLabel); err != nil {
		return err
	}

	if err := d.WaitVisible(ctx, PasswordInput); err != nil {
		return fmt.Errorf("password step never appeared: %w", err)
	}
	if err := d.Fill(ctx, PasswordInput, secret); err != nil {
		return err
	}
	if err := d.ClickText(ctx, SubmitButton, ContinueLabel); err != nil {
		return err
	}

	if err := d.WaitURL(ctx, dashboardPath); err != nil {
		return fmt.Errorf("dashboard never loaded: %w", err)
	}
	return nil
}

// OpenServer navigates to a server's detail page and waits for it to render.
func (s *Site) OpenServer(ctx context.Context, d Driver, serverID string) error {
	if err := d.Navigate(ctx, s.ServerURL(serverID)); err != nil {
		return err
	}
	return d.WaitStable(ctx, s.Settle)
}
