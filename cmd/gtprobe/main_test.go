package main

import (
	"testing"
)

func TestVersionConstant(t *testing.T) {
	if Version == "" {
		t.Error("Version constant should not be empty")
	}
}

func TestRootCommandReportsVersion(t *testing.T) {
	rootCmd := newRootCommand()

	if rootCmd.Version != Version {
		t.Errorf("Expected root command version %q, got %q", Version, rootCmd.Version)
	}
}
