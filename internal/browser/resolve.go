package browser

import (
	"fmt"
	"os"
	"strings"
)

// Target is a resolved browser location.
type Target struct {
	URI    string
	Scheme string
	// Bin is the browser executable for local targets. Empty lets the
	// launcher find or download one.
	Bin string
	// ControlURL is the DevTools endpoint for remote targets.
	ControlURL string
}

// Resolve resolves a browser URI.
//
// Supported schemes:
//   - "" or local://          → launch a local Chromium found by the launcher
//   - local:///abs/path       → launch the given executable
//   - ws:// or wss://...      → connect to a running DevTools endpoint
//   - http:// or https://...  → DevTools HTTP endpoint, resolved at connect time
func Resolve(uri string) (*Target, error) {
	switch {
	case uri == "" || uri == "local" || uri == "local://":
		return &Target{URI: "local://", Scheme: "local"}, nil
	case strings.HasPrefix(uri, "local://"):
		return resolveLocal(uri)
	case strings.HasPrefix(uri, "ws://"), strings.HasPrefix(uri, "wss://"):
		return &Target{URI: uri, Scheme: "ws", ControlURL: uri}, nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return &Target{URI: uri, Scheme: "http", ControlURL: uri}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, uri)
	}
}

func resolveLocal(uri string) (*Target, error) {
	path := strings.TrimPrefix(uri, "local://")
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: local browser path must be absolute: %s", ErrUnsupportedTarget, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("browser not found: %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("browser is a directory: %s", path)
	}
	if info.Mode()&0111 == 0 {
		return nil, fmt.Errorf("browser is not executable: %s", path)
	}

	return &Target{URI: uri, Scheme: "local", Bin: path}, nil
}
