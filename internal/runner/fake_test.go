package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sznuper/keeper/internal/inspect"
)

type fakeElement struct {
	text     string
	triggers int
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Trigger() error {
	e.triggers++
	return nil
}

type fakePage struct {
	controls []*fakeElement
	text     string
	html     string
}

func (p *fakePage) FindAll(_ context.Context, selector string) ([]inspect.Element, error) {
	if selector != inspect.ControlSelector && selector != inspect.ClaimSelector {
		return nil, nil
	}
	out := make([]inspect.Element, len(p.controls))
	for i, el := range p.controls {
		out[i] = el
	}
	return out, nil
}

func (p *fakePage) Text(context.Context) (string, error) { return p.text, nil }
func (p *fakePage) HTML(context.Context) (string, error) { return p.html, nil }

// fakeSession records driver calls into a shared event log so tests can
// assert ordering across accounts.
type fakeSession struct {
	name   string
	events *[]string
	page   *fakePage
	failOn string
	closed bool
}

func (s *fakeSession) record(call string) error {
	*s.events = append(*s.events, s.name+" "+call)
	if s.failOn != "" && call == s.failOn {
		return fmt.Errorf("%s: %w", call, errors.New("waiting for selector timed out"))
	}
	return nil
}

func (s *fakeSession) Navigate(context.Context, string) error { return s.record("navigate") }
func (s *fakeSession) Fill(context.Context, string, string) error { return s.record("fill") }
func (s *fakeSession) ClickText(context.Context, string, string) error { return s.record("click") }
func (s *fakeSession) WaitVisible(context.Context, string) error { return s.record("visible") }
func (s *fakeSession) WaitURL(context.Context, string) error { return s.record("url") }
func (s *fakeSession) WaitStable(context.Context, time.Duration) error { return s.record("stable") }
func (s *fakeSession) Page() inspect.Page { return s.page }

func (s *fakeSession) Screenshot(path string) error {
	_ = s.record("screenshot")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (s *fakeSession) Close() error {
	s.closed = true
	return s.record("close")
}

// runningPage is a dashboard page of a running server with one open and one
// already-claimed renewal.
func runningPage() *fakePage {
	return &fakePage{
		controls: []*fakeElement{
			{text: "STOP"},
			{text: "16 HOURS Claim"},
			{text: "8 HOURS Claimed"},
		},
		text: "My Server\nExpires in 1D 15H 0M.\n",
		html: `<html><body><h1>My Server</h1><p>203.0.113.7:25565</p></body></html>`,
	}
}

func openerFor(sessions ...*fakeSession) (Opener, *int) {
	opened := 0
	return func(context.Context) (Session, error) {
		if opened >= len(sessions) {
			return nil, errors.New("no more sessions")
		}
		s := sessions[opened]
		opened++
		*s.events = append(*s.events, s.name+" open")
		return s, nil
	}, &opened
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func countPrefix(events []string, prefix string) int {
	n := 0
	for _, e := range events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}
