package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/harrison/gtprobe/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
)

// NewScanCommand creates the 'gtprobe scan' command
func NewScanCommand() *cobra.Command {
	var markers []string

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan binaries for Google Test markers",
		Long: `Decode each file with the configured encoding and report whether it
contains any marker string.

Examples:
  # Scan with the built-in Google Test markers
  gtprobe scan out/Debug/core_test

  # Add a marker and decode as UTF-16
  gtprobe scan --encoding utf-16le --marker "MY_TEST_MAIN" out/app.exe`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc, err := fileutil.LookupEncoding(cfg.Encoding)
			if err != nil {
				return err
			}
			set := models.GoogleTestMarkers.With(cfg.Markers...).With(markers...)
			return scanFiles(args, enc, set, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("encoding", "", "WHATWG encoding label used to decode binaries (default from config)")
	cmd.Flags().StringArrayVar(&markers, "marker", nil, "Additional marker string (repeatable)")

	return cmd
}

// scanFiles prints one verdict line per file. Files that cannot be read are
// reported and make the command fail after every file was tried.
func scanFiles(paths []string, enc encoding.Encoding, set models.MarkerSet, output io.Writer) error {
	failed := 0
	for _, path := range paths {
		isTest, err := fileutil.BinaryFileContainsStrings(path, enc, set.Markers)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(output, "%s: %s\n", path, paint(output, color.FgRed, err.Error()))
		case isTest:
			fmt.Fprintf(output, "%s: %s\n", path, paint(output, color.FgGreen, "test executable"))
		default:
			fmt.Fprintf(output, "%s: not a test executable\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to scan %d of %d files", failed, len(paths))
	}
	return nil
}
