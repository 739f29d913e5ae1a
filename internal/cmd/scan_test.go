package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/gtprobe/internal/models"
)

// writeBinary writes content surrounded by non-text bytes.
func writeBinary(t *testing.T, dir, name, content string) string {
	t.Helper()

	data := append([]byte{0x7f, 'E', 'L', 'F', 0x00, 0xff, 0x01}, content...)
	data = append(data, 0x00, 0xfe, 0x00)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0755); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestScanCommand(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	dir := t.TempDir()
	testBin := writeBinary(t, dir, "core_test", models.GoogleTestMarkers.Markers[0])
	plainBin := writeBinary(t, dir, "tool", "usage: tool [options]")

	output, err := executeRoot(t, "--config", configPath, "scan", testBin, plainBin)
	if err != nil {
		t.Fatalf("scan returned error: %v\n%s", err, output)
	}

	if !strings.Contains(output, testBin+": test executable") {
		t.Errorf("Expected %s to be a test executable, got: %s", testBin, output)
	}
	if !strings.Contains(output, plainBin+": not a test executable") {
		t.Errorf("Expected %s not to be a test executable, got: %s", plainBin, output)
	}
}

func TestScanCommand_CustomMarker(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	dir := t.TempDir()
	bin := writeBinary(t, dir, "custom", "CUSTOM_TEST_MAIN")

	output, err := executeRoot(t, "--config", configPath, "scan", "--marker", "CUSTOM_TEST_MAIN", bin)
	if err != nil {
		t.Fatalf("scan returned error: %v\n%s", err, output)
	}
	if !strings.Contains(output, bin+": test executable") {
		t.Errorf("Expected custom marker to match, got: %s", output)
	}
}

func TestScanFiles_MissingFile(t *testing.T) {
	dir := t.TempDir()
	present := writeBinary(t, dir, "core_test", models.GoogleTestMarkers.Markers[1])
	missing := filepath.Join(dir, "missing")

	var output bytes.Buffer
	err := scanFiles([]string{missing, present}, nil, models.GoogleTestMarkers, &output)
	if err == nil {
		t.Fatal("Expected error when a file cannot be read")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("Expected failure count in error, got: %v", err)
	}
	if !strings.Contains(output.String(), present+": test executable") {
		t.Errorf("Readable files should still be scanned, got: %s", output.String())
	}
}
