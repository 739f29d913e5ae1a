package models

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// MarkerSet is a named list of marker strings. A binary whose decoded content
// contains any marker is treated as a test executable.
type MarkerSet struct {
	Name    string
	Markers []string
}

// GoogleTestMarkers holds fragments of the Google Test --help text, which is
// linked into every executable built against gtest_main or the gtest library.
var GoogleTestMarkers = MarkerSet{
	Name: "googletest",
	Markers: []string{
		"This program contains tests written using Google Test. You can use the",
		"For more information, please read the Google Test documentation at",
		"Run only the tests whose name matches one of the positive patterns but",
	},
}

// With returns a copy of the set extended with extra markers. Empty and
// duplicate markers are dropped.
func (m MarkerSet) With(extra ...string) MarkerSet {
	seen := make(map[string]bool, len(m.Markers)+len(extra))
	merged := make([]string, 0, len(m.Markers)+len(extra))
	for _, marker := range append(append([]string{}, m.Markers...), extra...) {
		if marker == "" || seen[marker] {
			continue
		}
		seen[marker] = true
		merged = append(merged, marker)
	}

	name := m.Name
	if len(merged) != len(m.Markers) {
		name += "+custom"
	}
	return MarkerSet{Name: name, Markers: merged}
}

// Fingerprint identifies the marker content independent of order.
// Cached scan verdicts are only valid for the fingerprint they were made with.
func (m MarkerSet) Fingerprint() string {
	sorted := append([]string{}, m.Markers...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:8])
}

// DiscoveryResult is the verdict for one candidate file.
type DiscoveryResult struct {
	Path             string
	Size             int64
	ModTime          time.Time
	IsTestExecutable bool
	Cached           bool
	Error            string
}

// Failed reports whether the candidate could not be classified.
func (r DiscoveryResult) Failed() bool {
	return r.Error != ""
}

// DiscoverySummary aggregates the results of one discovery run.
type DiscoverySummary struct {
	Pattern         string
	Candidates      int
	TestExecutables int
	Cached          int
	Failed          int
	Duration        time.Duration
}

// Summarize counts the verdicts in results.
func Summarize(pattern string, results []DiscoveryResult, duration time.Duration) DiscoverySummary {
	summary := DiscoverySummary{
		Pattern:    pattern,
		Candidates: len(results),
		Duration:   duration,
	}
	for _, r := range results {
		if r.IsTestExecutable {
			summary.TestExecutables++
		}
		if r.Cached {
			summary.Cached++
		}
		if r.Failed() {
			summary.Failed++
		}
	}
	return summary
}
