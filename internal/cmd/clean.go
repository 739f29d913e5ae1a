package cmd

import (
	"errors"
	"fmt"

	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/spf13/cobra"
)

// NewCleanCommand creates the 'gtprobe clean' command
func NewCleanCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean <directory>",
		Short: "Delete a directory tree",
		Long: `Delete a directory and everything below it.

A read-only entry anywhere in the tree stops the deletion before anything is
removed. --force clears read-only attributes and tries once more.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cleanDirectory(cmd, fileutil.OSHost(), args[0], force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Clear read-only attributes and retry")

	return cmd
}

func cleanDirectory(cmd *cobra.Command, attrs fileutil.Attributes, dir string, force bool) error {
	reaper := fileutil.NewReaper(attrs)

	err := reaper.DeleteDirectory(dir)
	if err != nil && force && errors.Is(err, fileutil.ErrReadOnly) {
		if clearErr := reaper.ClearReadOnly(dir); clearErr != nil {
			return fmt.Errorf("failed to clear read-only attributes: %w", clearErr)
		}
		err = reaper.DeleteDirectory(dir)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", dir)
	return nil
}
