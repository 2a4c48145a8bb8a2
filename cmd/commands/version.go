package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set during build time using ldflags
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Print the version information for planrisk.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), GetVersion())
		},
	}
}

// GetVersion returns a formatted version string
func GetVersion() string {
	return fmt.Sprintf("planrisk version %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}
