package app

import (
	"testing"
	"time"
)

func TestIsValidMode(t *testing.T) {
	for _, mode := range []string{ModeAll, ModeAPI, ModeWorker} {
		if !IsValidMode(mode) {
			t.Fatalf("mode %q must be valid", mode)
		}
	}
	for _, mode := range []string{"", "server", "ALL "} {
		if IsValidMode(mode) {
			t.Fatalf("mode %q must be invalid", mode)
		}
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll {
		t.Fatalf("default mode want %q got %q", ModeAll, opts.Mode)
	}
	if opts.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("default shutdown timeout want %v got %v", defaultShutdownTimeout, opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("logger must be defaulted")
	}

	opts = normalizeOptions(Options{Mode: "  Worker ", ShutdownTimeout: time.Second})
	if opts.Mode != ModeWorker {
		t.Fatalf("mode must be trimmed and lowered, got %q", opts.Mode)
	}
	if opts.ShutdownTimeout != time.Second {
		t.Fatalf("explicit shutdown timeout must be kept, got %v", opts.ShutdownTimeout)
	}
}
