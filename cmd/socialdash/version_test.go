package main

import (
	"runtime/debug"
	"testing"
)

func TestResolveVersion(t *testing.T) {
	testCases := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
	}{
		{"injected version wins over module version", "v2.0.1", &debug.BuildInfo{Main: debug.Module{Version: "v0.0.0"}}, "v2.0.1"},
		{"go install falls back to module version", "dev", &debug.BuildInfo{Main: debug.Module{Version: "v2.0.1"}}, "v2.0.1"},
		{"local build reports dev", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev"},
		{"empty module version reports dev", "dev", &debug.BuildInfo{}, "dev"},
		{"missing build info reports dev", "dev", nil, "dev"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveVersion(tc.ldflags, tc.info); got != tc.want {
				t.Errorf("resolveVersion(%q) = %q, want %q", tc.ldflags, got, tc.want)
			}
		})
	}
}
