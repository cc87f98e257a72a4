// Package version carries build information for hum.
// Override with -ldflags "-X humdrum/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the resolved build description.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Message   string `json:"message,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go"`
	Platform  string `json:"platform"`
}

// Get fills commit and date from the embedded VCS stamp when ldflags
// did not set them.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		Message:   GitMessage,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// Colored paints major.minor.patch; the suffix stays plain.
func Colored(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// String renders the multi-line "hum version" output.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hum %s\n", Colored(i.Version))
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&b, "commit: %s", commit)
		if i.Message != "" {
			fmt.Fprintf(&b, " (%s)", i.Message)
		}
		b.WriteByte('\n')
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&b, "built:  %s\n", i.BuildDate)
	}
	fmt.Fprintf(&b, "go:     %s %s\n", i.GoVersion, i.Platform)
	return b.String()
}
