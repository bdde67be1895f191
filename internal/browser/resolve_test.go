package browser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_DefaultLocal(t *testing.T) {
	for _, uri := range []string{"", "local", "local://"} {
		tgt, err := Resolve(uri)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", uri, err)
		}
		if tgt.Scheme != "local" || tgt.Bin != "" {
			t.Errorf("Resolve(%q) = %+v, want local without bin", uri, tgt)
		}
	}
}

func TestResolve_LocalBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chromium")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	tgt, err := Resolve("local://" + path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tgt.Bin != path {
		t.Errorf("bin = %q, want %q", tgt.Bin, path)
	}
}

func TestResolve_LocalBinaryNotExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chromium")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve("local://" + path); err == nil {
		t.Fatal("expected error for non-executable browser")
	}
}

func TestResolve_LocalRelativeRejected(t *testing.T) {
	_, err := Resolve("local://chromium")
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestResolve_Remote(t *testing.T) {
	tests := []struct {
		uri, scheme string
	}{
		{"ws://127.0.0.1:9222/devtools/browser/abc", "ws"},
		{"wss://browser.internal/devtools/browser/abc", "ws"},
		{"http://127.0.0.1:9222", "http"},
	}
	for _, tt := range tests {
		tgt, err := Resolve(tt.uri)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.uri, err)
		}
		if tgt.Scheme != tt.scheme {
			t.Errorf("Resolve(%q).Scheme = %q, want %q", tt.uri, tgt.Scheme, tt.scheme)
		}
		if tgt.ControlURL != tt.uri {
			t.Errorf("Resolve(%q).ControlURL = %q", tt.uri, tgt.ControlURL)
		}
	}
}

func TestResolve_Unsupported(t *testing.T) {
	_, err := Resolve("ftp://something")
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestIsTimeout(t *testing.T) {
	if IsTimeout(nil) {
		t.Error("nil is not a timeout")
	}
	if !IsTimeout(ErrTimeout) {
		t.Error("ErrTimeout should be a timeout")
	}
	if IsTimeout(errors.New("boom")) {
		t.Error("plain error is not a timeout")
	}
}
