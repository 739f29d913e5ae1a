package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/gtprobe/internal/config"
	"github.com/harrison/gtprobe/internal/logger"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for gtprobe
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gtprobe",
		Short: "Locate Google Test executables on disk",
		Long: `gtprobe finds Google Test executables by scanning binaries for
strings from the Google Test help text.

It validates path+filename patterns, scans the matching files in parallel,
caches verdicts for unchanged binaries and renders discovery reports.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .gtprobe/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("log-dir", "", "Directory for per-run log files (empty string disables)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewDiscoverCommand())
	cmd.AddCommand(NewCleanCommand())
	cmd.AddCommand(NewTempDirCommand())
	cmd.AddCommand(NewCacheCommand())

	return cmd
}

// loadConfig reads the config file named by --config (or .gtprobe/config.yaml),
// applies any flags the user set and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.MergeWithFlags(
		changedString(cmd, "log-level"),
		changedString(cmd, "log-dir"),
		changedString(cmd, "encoding"),
		changedDuration(cmd, "timeout"),
		changedString(cmd, "syntax"),
		changedBool(cmd, "no-cache"),
	)
	if f := cmd.Flags().Lookup("recursive"); f != nil && f.Changed {
		cfg.Recursive, _ = cmd.Flags().GetBool("recursive")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// changedString returns the flag value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func changedDuration(cmd *cobra.Command, name string) *time.Duration {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return nil
	}
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// newRunLogger builds the console logger on stderr plus the per-run file
// logger when a log directory is configured. The returned close func flushes
// the file logger.
func newRunLogger(cmd *cobra.Command, cfg *config.Config) (logger.Tee, func()) {
	loggers := logger.Tee{logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)}
	closeFn := func() {}

	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: file logging disabled: %v\n", err)
		} else {
			loggers = append(loggers, fileLog)
			closeFn = func() { _ = fileLog.Close() }
		}
	}
	return loggers, closeFn
}

// paint colours s when w is a terminal and NO_COLOR is not set.
func paint(w io.Writer, attr color.Attribute, s string) string {
	if color.NoColor || !isTerminal(w) {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
