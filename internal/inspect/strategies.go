package inspect

import (
	"context"
	"regexp"
	"strings"
)

// The dashboard markup is not ours and changes without notice. Every selector
// and label pattern the inspector depends on lives in this file.

// ControlSelector matches every element kind the dashboard has used for
// actions.
const ControlSelector = `button, a, [role='button'], input[type='button'], input[type='submit']`

// ClaimSelector lists claim candidates. Links are excluded: clicking one
// navigates away and detaches the remaining buttons.
const ClaimSelector = `button, [role='button']`

// Style selectors match whole class tokens or utility prefixes, never bare
// colour substrings that also occur in words like "centered".
const (
	stopAttrSelector   = `[aria-label*='stop' i], [title*='stop' i], [data-action='stop'], [data-testid*='stop' i]`
	stopStyleSelector  = `button[class~='danger'], button[class~='destructive'], button[class*='-danger'], button[class*='-destructive'], button[class*='bg-red-']`
	startAttrSelector  = `[aria-label*='start' i], [title*='start' i], [data-action='start'], [data-testid*='start' i]`
	startStyleSelector = `button[class~='success'], button[class*='-success'], button[class*='bg-green-']`
)

var (
	iconOnly = regexp.MustCompile(`^\s*$`)

	claimMarker   = regexp.MustCompile(`(?i)\bclaim(ed)?\b`)
	claimedMarker = regexp.MustCompile(`(?i)\bclaimed\b`)
)

// Strategy is one way of recognising a control. It matches when any element
// selected by Selector has text matching Text; a nil Text matches any element.
type Strategy struct {
	Name     string
	Selector string
	Text     *regexp.Regexp
}

// RunningStrategies recognise a control that is only offered while the server
// runs.
var RunningStrategies = []Strategy{
	{Name: "stop-label", Selector: ControlSelector, Text: regexp.MustCompile(`(?i)\bstop\b`)},
	{Name: "stop-attribute", Selector: stopAttrSelector},
	{Name: "stop-style", Selector: stopStyleSelector, Text: iconOnly},
}

// StoppedStrategies recognise a control that is only offered while the server
// is stopped.
var StoppedStrategies = []Strategy{
	{Name: "start-label", Selector: ControlSelector, Text: regexp.MustCompile(`(?i)\bstart\b`)},
	{Name: "start-attribute", Selector: startAttrSelector},
	{Name: "start-style", Selector: startStyleSelector, Text: iconOnly},
}

// firstMatch tries strategies in order and returns the first matching element.
// Elements whose text cannot be read are skipped; they are usually detached
// by a re-render.
func firstMatch(ctx context.Context, page Page, strategies []Strategy) (Element, Strategy, bool, error) {
	for _, s := range strategies {
		elements, err := page.FindAll(ctx, s.Selector)
		if err != nil {
			return nil, s, false, err
		}
		for _, el := range elements {
			if s.Text == nil {
				return el, s, true, nil
			}
			text, err := el.Text()
			if err != nil {
				continue
			}
			if s.Text.MatchString(text) {
				return el, s, true, nil
			}
		}
	}
	return nil, Strategy{}, false, nil
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
