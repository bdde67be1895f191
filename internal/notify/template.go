package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/sznuper/keeper/internal/result"
)

// DefaultTemplate is the Telegram HTML message sent when no template is
// configured.
const DefaultTemplate = `<b>🟣 Pella keep-alive</b>
🆔 Account: <code>{{run.account | html}}</code>
🖥 Server: <code>{{run.address | html}}</code>
⏰ Time: {{run.time}}

{{run.state_emoji}} Status: <b>{{run.state_text}}</b>
⏳ Remaining: <b>{{run.remaining | html}}</b>
🎁 Renewal: {{run.claim_text | html}}
{{- if run.notes}}
📝 {{run.notes | html}}{{end}}`

// TimeLayout formats run.time.
const TimeLayout = "2006-01-02 15:04:05"

// TemplateData holds all data available to notification templates.
type TemplateData struct {
	Globals map[string]any
	Run     map[string]string
}

// BuildTemplateData flattens a run result into template fields. Timestamps are
// rendered in loc.
func BuildTemplateData(globals map[string]any, res *result.RunResult, loc *time.Location) TemplateData {
	if globals == nil {
		globals = map[string]any{}
	}
	if loc == nil {
		loc = time.UTC
	}

	run := map[string]string{
		"account":     res.AccountMasked,
		"server_id":   res.ServerID,
		"server":      res.ServerName,
		"address":     res.ResourceAddress,
		"state":       res.State.String(),
		"state_text":  stateText(res.State),
		"state_emoji": res.State.Emoji(),
		"remaining":   res.Remaining,
		"claim":       res.Claim.String(),
		"claim_text":  claimText(res),
		"notes":       strings.Join(res.Notes, "; "),
		"time":        res.StartedAt.In(loc).Format(TimeLayout),
		"duration":    res.Duration.Round(time.Second).String(),
		"screenshot":  res.Screenshot,
	}

	return TemplateData{
		Globals: globals,
		Run:     run,
	}
}

func stateText(s result.RunState) string {
	switch s {
	case result.StateRunning:
		return "Running"
	case result.StateStopped:
		return "Stopped"
	case result.StateStartTriggered:
		return "Start triggered"
	case result.StateStartFailed:
		return "Start failed"
	case result.StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

func claimText(res *result.RunResult) string {
	switch res.Claim.Kind {
	case result.ClaimClaimed:
		return fmt.Sprintf("Claimed %d (%s)", res.Claim.Count, strings.Join(res.ClaimedLabels, ", "))
	case result.ClaimNotNeeded:
		return "Already claimed"
	case result.ClaimNoneAvailable:
		return "None available"
	default:
		return "Unknown"
	}
}

// Render executes a Go text/template string with Sprig functions and the
// accessor functions globals and run.
func Render(tmplStr string, data TemplateData) (string, error) {
	funcMap := sprig.TxtFuncMap()

	// {{run.state}}: "run" returns the map, ".state" indexes it.
	funcMap["globals"] = func() map[string]any { return data.Globals }
	funcMap["run"] = func() map[string]string { return data.Run }

	t, err := template.New("notify").Funcs(funcMap).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
