package inspect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

type fakeElement struct {
	text      string
	triggers  int
	textErr   error
	triggerFn func() error
}

func (e *fakeElement) Text() (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) Trigger() error {
	e.triggers++
	if e.triggerFn != nil {
		return e.triggerFn()
	}
	return nil
}

// fakePage serves elements keyed by exact selector string.
type fakePage struct {
	elements map[string][]*fakeElement
	text     string
	html     string
	findErr  error
}

func newFakePage() *fakePage {
	return &fakePage{elements: make(map[string][]*fakeElement)}
}

func (p *fakePage) add(selector, text string) *fakeElement {
	el := &fakeElement{text: text}
	p.elements[selector] = append(p.elements[selector], el)
	return el
}

func (p *fakePage) FindAll(_ context.Context, selector string) ([]Element, error) {
	if p.findErr != nil {
		return nil, p.findErr
	}
	var out []Element
	for _, el := range p.elements[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (p *fakePage) Text(context.Context) (string, error) {
	if p.text == "" && p.html == "" {
		return "", errors.New("no document")
	}
	return p.text, nil
}

func (p *fakePage) HTML(context.Context) (string, error) {
	return p.html, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastOptions() Options {
	return Options{
		SettleTimeout: 30 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		ClaimPause:    time.Millisecond,
	}
}
