package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.5", "1.2.3-rc.1+build.5"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q", tt.in, got)
		}
	}
}

func TestInfoString(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	info := Info{
		Version:   "1.2.3",
		Commit:    "abc123def4567890",
		Message:   "fix merge paths",
		BuildDate: "2026-01-15T10:30:00Z",
		GoVersion: "go1.25.4",
		Platform:  "linux/amd64",
	}
	out := info.String()
	for _, want := range []string{"hum 1.2.3\n", "commit: abc123def456 (fix merge paths)", "built:  2026-01-15", "go:     go1.25.4 linux/amd64"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestGetUsesOverrides(t *testing.T) {
	savedV, savedC := Version, GitCommit
	defer func() { Version, GitCommit = savedV, savedC }()
	Version, GitCommit = "9.9.9", "deadbeef"

	info := Get()
	if info.Version != "9.9.9" || info.Commit != "deadbeef" || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
}
