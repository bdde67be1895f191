package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"

	"github.com/sznuper/keeper/internal/inspect"
)

type page struct {
	p       *rod.Page
	timeout time.Duration
}

func (pg *page) FindAll(ctx context.Context, selector string) ([]inspect.Element, error) {
	p := pg.p.Context(ctx).Timeout(pg.timeout)
	defer p.CancelTimeout()

	els, err := p.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]inspect.Element, 0, len(els))
	for _, el := range els {
		// Detach from the lookup timeout, which is cancelled on return.
		out = append(out, &element{el: el.Context(ctx), timeout: pg.timeout})
	}
	return out, nil
}

func (pg *page) Text(ctx context.Context) (string, error) {
	p := pg.p.Context(ctx).Timeout(pg.timeout)
	defer p.CancelTimeout()

	obj, err := p.Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

func (pg *page) HTML(ctx context.Context) (string, error) {
	p := pg.p.Context(ctx).Timeout(pg.timeout)
	defer p.CancelTimeout()
	return p.HTML()
}

type element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *element) Text() (string, error) {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	return el.Text()
}

func (e *element) Trigger() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	_, err := el.Eval(`() => this.click()`)
	return err
}
