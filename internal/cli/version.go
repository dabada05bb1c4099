package cli

import (
	"fmt"

	"github.com/soyeahso/cordkit/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of cordkit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			fmt.Fprintln(cmd.OutOrStdout(), version.UserAgent())
		},
	}
}
