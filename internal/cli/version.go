package cli

import (
	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/pkg/version"
)

// NewVersionCmd prints build information.
func NewVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("combstruct %s (commit %s, built %s)\n", ver, version.GetCommit(), version.GetBuildDate())
		},
	}
}
