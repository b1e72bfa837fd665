package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Release metadata, normally injected through -ldflags by the release
// build. Development builds fall back to the module's build info.
var (
	version = ""
	commit  = ""
	date    = ""
)

// resolveVersion picks the ldflags version when present, otherwise the
// module version Go recorded at build time.
func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// resolveCommit returns the short commit hash for this build.
func resolveCommit() string {
	if commit != "" {
		return commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// resolveDate returns the commit timestamp for this build.
func resolveDate() string {
	if date != "" {
		return date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// buildSetting reads one key from the embedded VCS build settings.
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of sitegauge.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitegauge version %s\n", resolveVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", resolveCommit())
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", resolveDate())
		},
	}
}
