package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pattern>",
		Short: "Check that a path+filename pattern is well formed",
		Long: `Split a pattern into its directory and file parts and check both:
  - the path part must be a well-formed absolute directory
  - the file part must be a valid file name glob

The check is purely syntactic; the directory does not have to exist.
--syntax selects the rules: host (default), windows or posix.

Exit code: 0 if valid, 1 otherwise`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return validatePattern(args[0], cfg.Syntax(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("syntax", "", "Path syntax: host, windows or posix (default from config)")

	return cmd
}

// validatePattern reports the verdict for pattern on output.
func validatePattern(pattern string, syntax fileutil.PathSyntax, output io.Writer) error {
	if err := fileutil.ValidatePattern(pattern, syntax); err != nil {
		fmt.Fprintf(output, "%s %v\n", paint(output, color.FgRed, "✗"), err)
		return err
	}
	fmt.Fprintf(output, "%s pattern is valid\n", paint(output, color.FgGreen, "✓"))
	return nil
}
