package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"release", Info{Version: "1.2.0", Commit: "abc123"}, "1.2.0"},
		{"dev with commit", Info{Version: "dev", Commit: "abc123"}, "dev+abc123"},
		{"dev without commit", Info{Version: "dev", Commit: "unknown"}, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Fatalf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetIncludesRuntime(t *testing.T) {
	info := Get()
	if info.GoVersion != runtime.Version() {
		t.Fatalf("unexpected go version %q", info.GoVersion)
	}
	if !strings.HasPrefix(info.String(), "doctor "+info.Version) {
		t.Fatalf("unexpected string %q", info.String())
	}
}
