package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/sznuper/keeper/internal/inspect"
)

// Options configures a browser session.
type Options struct {
	Headless bool
	// WaitTimeout bounds every element and navigation wait.
	WaitTimeout time.Duration
	Width       int
	Height      int
}

// Session is one stealth page in one browser process, owned by a single
// account run.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   bool
}

// Open launches or connects to the target browser and opens a stealth page.
func Open(ctx context.Context, t *Target, opts Options) (*Session, error) {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 1920, 1080
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 30 * time.Second
	}

	s := &Session{timeout: opts.WaitTimeout}

	controlURL := t.ControlURL
	switch t.Scheme {
	case "local":
		l := launcher.New().
			Context(ctx).
			Headless(opts.Headless).
			NoSandbox(true).
			Set("disable-blink-features", "AutomationControlled").
			Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))
		if t.Bin != "" {
			l = l.Bin(t.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launching browser: %w", err)
		}
		s.launcher = l
		controlURL = u
	case "http":
		u, err := launcher.ResolveURL(t.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("resolving devtools endpoint: %w", err)
		}
		controlURL = u
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		if s.launcher != nil {
			s.launcher.Kill()
		}
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := stealth.Page(s.browser)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening stealth page: %w", err)
	}
	s.page = page

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	return s, nil
}

// bounded returns the page limited to one wait timeout. Callers must
// CancelTimeout it when the operation is done.
func (s *Session) bounded(ctx context.Context) *rod.Page {
	return s.page.Context(ctx).Timeout(s.timeout)
}

// Navigate opens url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	p := s.bounded(ctx)
	defer p.CancelTimeout()
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

// WaitStable waits until the DOM stops changing for d.
func (s *Session) WaitStable(ctx context.Context, d time.Duration) error {
	p := s.bounded(ctx)
	defer p.CancelTimeout()
	if err := p.WaitDOMStable(d, 0); err != nil {
		return fmt.Errorf("waiting for page to settle: %w", err)
	}
	return nil
}

// WaitVisible waits for the first element matching selector to be visible.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	p := s.bounded(ctx)
	defer p.CancelTimeout()
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("waiting for %s to be visible: %w", selector, err)
	}
	return nil
}

// Fill replaces the value of the input matching selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	p := s.bounded(ctx)
	defer p.CancelTimeout()
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("finding %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clearing %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

// ClickText clicks the first element matching selector whose text matches
// the JS regex, e.g. "/continue/i".
func (s *Session) ClickText(ctx context.Context, selector, jsRegex string) error {
	p := s.bounded(ctx)
	defer p.CancelTimeout()
	el, err := p.ElementR(selector, jsRegex)
	if err != nil {
		return fmt.Errorf("finding %s %s: %w", selector, jsRegex, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %s %s: %w", selector, jsRegex, err)
	}
	return nil
}

// WaitURL polls the page URL until it contains fragment.
func (s *Session) WaitURL(ctx context.Context, fragment string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()

	for {
		info, err := s.page.Context(ctx).Info()
		if err == nil && strings.Contains(info.URL, fragment) {
			return nil
		}
		select {
		case <-ctx.Done():
			last := ""
			if info != nil {
				last = info.URL
			}
			return fmt.Errorf("%w: url never contained %q (last %q)", ErrTimeout, fragment, last)
		case <-tick.C:
		}
	}
}

// Screenshot writes a full-page PNG to path, creating its directory.
func (s *Session) Screenshot(path string) error {
	if s.page == nil {
		return ErrSessionClosed
	}
	p := s.page.Timeout(s.timeout)
	defer p.CancelTimeout()
	data, err := p.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}
	return nil
}

// Page exposes the current page to the inspector.
func (s *Session) Page() inspect.Page {
	return &page{p: s.page, timeout: s.timeout}
}

// Close tears the session down. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	return err
}
