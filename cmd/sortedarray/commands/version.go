package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Swoorup/the-sorted-array/pkg/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sortedarray %s\n", version.String())
		},
	}
}
