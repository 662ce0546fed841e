package cli

import (
	"fmt"

	"github.com/heartmarshall/words/internal/app"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "words %s\n", app.BuildVersion())
			return err
		},
	}
}
