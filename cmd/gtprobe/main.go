package main

import (
	"fmt"
	"os"

	"github.com/harrison/gtprobe/internal/cmd"
	"github.com/spf13/cobra"
)

// Version is the current version of the gtprobe application
const Version = "1.0.0"

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI, reporting Version unless a version was
// injected at build time.
func newRootCommand() *cobra.Command {
	if cmd.Version == "dev" {
		cmd.Version = Version
	}
	return cmd.NewRootCommand()
}
