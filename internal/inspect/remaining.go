package inspect

import (
	"regexp"
	"strings"

	"github.com/sznuper/keeper/internal/result"
)

var expiresPattern = regexp.MustCompile(`(?i)expires\s+in\s+([^.\n]+)`)

// ExtractRemaining pulls the duration out of "expires in <duration>." in the
// page text, e.g. "1D 15H 0M". It returns result.RemainingUnknown when the
// phrase is absent.
func ExtractRemaining(text string) string {
	m := expiresPattern.FindStringSubmatch(text)
	if m == nil {
		return result.RemainingUnknown
	}
	d := strings.TrimSpace(m[1])
	if d == "" {
		return result.RemainingUnknown
	}
	return d
}
