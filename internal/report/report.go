// Package report renders discovery results for people: a plain text listing,
// a Markdown table, or HTML converted from that Markdown.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/gtprobe/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects the report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "text", "markdown"/"md" and "html".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, markdown or html)", s)
	}
}

// Render writes the results and their summary to w in the given format.
func Render(w io.Writer, format Format, results []models.DiscoveryResult, summary models.DiscoverySummary) error {
	switch format {
	case FormatText:
		return renderText(w, results, summary)
	case FormatMarkdown:
		_, err := io.WriteString(w, markdown(results, summary))
		return err
	case FormatHTML:
		md := goldmark.New(goldmark.WithExtensions(extension.Table))
		var body bytes.Buffer
		if err := md.Convert([]byte(markdown(results, summary)), &body); err != nil {
			return fmt.Errorf("failed to convert report to HTML: %w", err)
		}
		_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>gtprobe discovery</title></head>\n<body>\n%s</body>\n</html>\n", body.String())
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, results []models.DiscoveryResult, summary models.DiscoverySummary) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s\t%s\n", status(r), r.Path)
	}
	fmt.Fprintf(&b, "\n%d test executables in %d candidates (%d cached, %d failed)\n",
		summary.TestExecutables, summary.Candidates, summary.Cached, summary.Failed)
	_, err := io.WriteString(w, b.String())
	return err
}

func markdown(results []models.DiscoveryResult, summary models.DiscoverySummary) string {
	var b strings.Builder
	b.WriteString("# Test executable discovery\n\n")
	fmt.Fprintf(&b, "Pattern: `%s`\n\n", summary.Pattern)
	fmt.Fprintf(&b, "- Candidates: %d\n", summary.Candidates)
	fmt.Fprintf(&b, "- Test executables: %d\n", summary.TestExecutables)
	fmt.Fprintf(&b, "- Cached verdicts: %d\n", summary.Cached)
	fmt.Fprintf(&b, "- Failed scans: %d\n", summary.Failed)
	fmt.Fprintf(&b, "- Duration: %s\n\n", summary.Duration.Round(1e6))

	if len(results) == 0 {
		b.WriteString("No candidates matched the pattern.\n")
		return b.String()
	}

	b.WriteString("| File | Verdict | Cached |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range results {
		cached := ""
		if r.Cached {
			cached = "yes"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", escapeCell(r.Path), escapeCell(status(r)), cached)
	}
	return b.String()
}

func status(r models.DiscoveryResult) string {
	switch {
	case r.Failed():
		return "error: " + r.Error
	case r.IsTestExecutable:
		return "test"
	default:
		return "skip"
	}
}

// escapeCell keeps pipes inside a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
