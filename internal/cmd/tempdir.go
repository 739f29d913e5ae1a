package cmd

import (
	"fmt"

	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/spf13/cobra"
)

// NewTempDirCommand creates the 'gtprobe tempdir' command
func NewTempDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tempdir",
		Short: "Create a unique directory under the system temp dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := fileutil.TempDirectory()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
