package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrison/gtprobe/internal/cache"
	"github.com/harrison/gtprobe/internal/filelock"
	"github.com/spf13/cobra"
)

// NewCacheCommand creates the 'gtprobe cache' parent command
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the discovery cache",
		Long: `Commands for managing the SQLite cache of scan verdicts.

Verdicts are keyed by path, size, modification time, encoding and marker set,
so a changed binary is always rescanned.`,
	}

	cmd.AddCommand(newCacheClearCommand())
	cmd.AddCommand(newCachePruneCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return withCache(cfg.Cache.DBPath, cmd.OutOrStdout(), func(store *cache.Store) (int64, error) {
				return store.Clear(cmd.Context())
			})
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete verdicts older than a cutoff",
		Long: `Delete cached verdicts recorded before now minus --older-than.

Without --older-than the cutoff is cache.keep_days from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			olderThan := time.Duration(cfg.Cache.KeepDays) * 24 * time.Hour
			if cmd.Flags().Changed("older-than") {
				olderThan, _ = cmd.Flags().GetDuration("older-than")
			}
			if olderThan <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune: verdicts are kept forever.")
				return nil
			}

			cutoff := time.Now().Add(-olderThan)
			return withCache(cfg.Cache.DBPath, cmd.OutOrStdout(), func(store *cache.Store) (int64, error) {
				return store.Prune(cmd.Context(), cutoff)
			})
		},
	}

	cmd.Flags().Duration("older-than", 0, "Age cutoff, e.g. 720h (default from cache.keep_days)")

	return cmd
}

// withCache runs fn against the cache database under its lock file and
// reports the number of deleted verdicts.
func withCache(dbPath string, output io.Writer, fn func(*cache.Store) (int64, error)) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(output, "No cache database found at: %s\n", dbPath)
		return nil
	}

	var deleted int64
	var location string
	err := filelock.WithLock(dbPath+".lock", func() error {
		store, err := cache.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()

		location = store.Path()
		deleted, err = fn(store)
		return err
	})
	if err != nil {
		return err
	}

	verdictText := "verdict"
	if deleted != 1 {
		verdictText = "verdicts"
	}
	fmt.Fprintf(output, "Deleted %d %s from %s.\n", deleted, verdictText, location)
	return nil
}
