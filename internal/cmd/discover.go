package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/harrison/gtprobe/internal/cache"
	"github.com/harrison/gtprobe/internal/executor"
	"github.com/harrison/gtprobe/internal/filelock"
	"github.com/harrison/gtprobe/internal/models"
	"github.com/harrison/gtprobe/internal/report"
	"github.com/spf13/cobra"
)

// NewDiscoverCommand creates the 'gtprobe discover' command
func NewDiscoverCommand() *cobra.Command {
	var markers []string

	cmd := &cobra.Command{
		Use:   "discover <pattern>",
		Short: "Find test executables matching a pattern",
		Long: `Validate the pattern, list the files in its directory whose names match
the file part, and scan them in parallel for Google Test markers.

Verdicts for unchanged files are served from the SQLite cache unless
--no-cache is given.

Examples:
  gtprobe discover '/src/out/Debug/*_test'
  gtprobe discover --format html --output report.html 'C:\build\bin\*.exe'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, args[0], markers)
		},
	}

	cmd.Flags().Duration("timeout", 0, "Maximum time to wait for the scan (0 = no limit, default from config)")
	cmd.Flags().String("format", "text", "Report format: text, markdown or html")
	cmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("no-cache", false, "Do not read or update the discovery cache")
	cmd.Flags().Bool("recursive", false, "Also search subdirectories of the pattern's directory")
	cmd.Flags().String("encoding", "", "WHATWG encoding label used to decode binaries (default from config)")
	cmd.Flags().String("syntax", "", "Path syntax: host, windows or posix (default from config)")
	cmd.Flags().StringArrayVar(&markers, "marker", nil, "Additional marker string (repeatable)")

	return cmd
}

func runDiscover(cmd *cobra.Command, pattern string, markers []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog := newRunLogger(cmd, cfg)
	defer closeLog()

	var scanCache executor.ScanCache
	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache.DBPath)
		if err != nil {
			log.LogWarn(fmt.Sprintf("discovery cache disabled: %v", err))
		} else {
			defer store.Close()
			scanCache = store
		}
	}

	discoverer, err := executor.NewDiscoverer(executor.DiscoveryOptions{
		Syntax:       cfg.Syntax(),
		EncodingName: cfg.Encoding,
		Markers:      models.GoogleTestMarkers.With(cfg.Markers...).With(markers...),
		Timeout:      cfg.DiscoveryTimeout,
		Recursive:    cfg.Recursive,
	}, scanCache, log)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := discoverer.Discover(cmd.Context(), pattern)
	if err != nil {
		return err
	}
	summary := models.Summarize(pattern, results, time.Since(start))

	var buf bytes.Buffer
	if err := report.Render(&buf, format, results, summary); err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := filelock.LockAndWrite(outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.LogInfo(fmt.Sprintf("Report written to %s", outputPath))
	return nil
}
