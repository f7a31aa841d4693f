package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, set by main from ldflags.
var (
	version   = "dev"
	gitCommit = "none"
)

// SetVersionInfo records the build version reported by the version command.
func SetVersionInfo(v, commit string) {
	version = v
	gitCommit = commit
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glrfill %s (%s) %s %s/%s\n",
				version, gitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
