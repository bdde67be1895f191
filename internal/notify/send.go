package notify

import (
	"fmt"
	"net/url"

	"github.com/nicholas-fedor/shoutrrr"
)

// Target holds a fully resolved notification target ready to send.
type Target struct {
	ServiceName string
	URL         string
	Message     string
	Params      map[string]string
}

// NotifyRef is a notify list entry: a service name with optional overrides.
type NotifyRef struct {
	ServiceName string
	Template    string
	Params      map[string]string
}

// ServiceDef is a named shoutrrr URL with base params.
type ServiceDef struct {
	URL    string
	Params map[string]string
}

// TelegramService is the target built from an account's own bot token and
// chat id.
func TelegramService(botToken, chatID string) ServiceDef {
	return ServiceDef{
		URL: "telegram://" + botToken + "@telegram",
		Params: map[string]string{
			"chats":     chatID,
			"parsemode": "HTML",
		},
	}
}

// ResolveTargets builds the list of notification targets from a notify list,
// service definitions, and template data. It renders the message template and
// param value templates for each target.
func ResolveTargets(
	notifyList []NotifyRef,
	services map[string]ServiceDef,
	defaultTemplate string,
	data TemplateData,
) ([]Target, error) {
	if defaultTemplate == "" {
		defaultTemplate = DefaultTemplate
	}

	var targets []Target
	for _, ref := range notifyList {
		svc, ok := services[ref.ServiceName]
		if !ok {
			return nil, fmt.Errorf("unknown service %q", ref.ServiceName)
		}

		tmplStr := defaultTemplate
		if ref.Template != "" {
			tmplStr = ref.Template
		}

		msg, err := Render(tmplStr, data)
		if err != nil {
			return nil, fmt.Errorf("rendering template for %s: %w", ref.ServiceName, err)
		}

		// Service base params, then per-target overrides.
		merged := make(map[string]string)
		for k, v := range svc.Params {
			merged[k] = v
		}
		for k, v := range ref.Params {
			merged[k] = v
		}

		for k, v := range merged {
			rendered, err := Render(v, data)
			if err != nil {
				return nil, fmt.Errorf("rendering param %q for %s: %w", k, ref.ServiceName, err)
			}
			merged[k] = rendered
		}

		targets = append(targets, Target{
			ServiceName: ref.ServiceName,
			URL:         svc.URL,
			Message:     msg,
			Params:      merged,
		})
	}

	return targets, nil
}

// Send delivers a notification to a single target via Shoutrrr.
func Send(t Target) error {
	u, err := applyParams(t.URL, t.Params)
	if err != nil {
		return fmt.Errorf("building url for %s: %w", t.ServiceName, err)
	}

	sender, err := shoutrrr.CreateSender(u)
	if err != nil {
		return fmt.Errorf("creating sender for %s: %w", t.ServiceName, err)
	}

	for _, e := range sender.Send(t.Message, nil) {
		if e != nil {
			return fmt.Errorf("sending to %s: %w", t.ServiceName, e)
		}
	}
	return nil
}

// Validate checks that a target's URL builds a sender without sending.
func Validate(t Target) error {
	u, err := applyParams(t.URL, t.Params)
	if err != nil {
		return fmt.Errorf("building url for %s: %w", t.ServiceName, err)
	}
	if _, err := shoutrrr.CreateSender(u); err != nil {
		return fmt.Errorf("invalid service %s: %w", t.ServiceName, err)
	}
	return nil
}

// applyParams merges params into the URL query string. Keys are sorted by
// url.Values.Encode.
func applyParams(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
