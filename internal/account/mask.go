package account

import "strings"

// Mask redacts the local part of an identity and keeps the domain.
//
//	a@example.com      → a***@example.com
//	abc@example.com    → a***@example.com
//	abcdef@example.com → ab***f@example.com
//
// Strings without '@' are masked as a whole. Empty input yields "unknown".
func Mask(identity string) string {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "unknown"
	}

	local, domain, hasDomain := strings.Cut(identity, "@")
	masked := maskLocal(local)
	if !hasDomain {
		return masked
	}
	return masked + "@" + domain
}

func maskLocal(local string) string {
	r := []rune(local)
	switch {
	case len(r) == 0:
		return "***"
	case len(r) <= 3:
		return string(r[:1]) + "***"
	default:
		return string(r[:2]) + "***" + string(r[len(r)-1:])
	}
}
