// Package logger provides logging implementations for gtprobe.
//
// Every line starts with the timestamp produced by TimestampMessage. The
// console logger colours levels and verdicts when writing to a terminal; the
// file logger keeps one log file per run.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/gtprobe/internal/models"
)

// Logger is implemented by every logger in this package.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogDiscoveryStart(pattern string, candidates int)
	LogScanResult(result models.DiscoveryResult)
	LogSummary(summary models.DiscoverySummary)
}

// ConsoleLogger logs to a writer with timestamps and thread safety.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// false when NO_COLOR is set or the stream is not a TTY
		return !color.NoColor
	}
	return false
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !allows(cl.logLevel, strings.ToLower(level)) {
		return
	}

	if cl.colorOutput {
		level = colorLevel(level)
	}
	cl.write(fmt.Sprintf("[%s] %s", level, message))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// write prefixes line with the timestamp and appends a newline.
func (cl *ConsoleLogger) write(line string) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	io.WriteString(cl.writer, TimestampMessage(line)+"\n")
}

// LogDiscoveryStart logs the number of candidates found for pattern at INFO level.
// Format: "HH:MM:SS.mmm - Scanning <n> candidates for <pattern>"
func (cl *ConsoleLogger) LogDiscoveryStart(pattern string, candidates int) {
	if cl.writer == nil || !allows(cl.logLevel, "info") {
		return
	}

	label := "candidates"
	if candidates == 1 {
		label = "candidate"
	}
	if cl.colorOutput {
		pattern = color.New(color.Bold).Sprint(pattern)
	}
	cl.write(fmt.Sprintf("Scanning %d %s for %s", candidates, label, pattern))
}

// LogScanResult logs the verdict for one candidate at DEBUG level, or at WARN
// level when the candidate could not be scanned.
func (cl *ConsoleLogger) LogScanResult(result models.DiscoveryResult) {
	if cl.writer == nil {
		return
	}

	if result.Failed() {
		cl.LogWarn(fmt.Sprintf("%s: %s", result.Path, result.Error))
		return
	}
	if !allows(cl.logLevel, "debug") {
		return
	}

	verdict := verdictText(result)
	if cl.colorOutput && result.IsTestExecutable {
		verdict = color.New(color.FgGreen).Sprint(verdict)
	}
	cl.write(fmt.Sprintf("%s: %s%s", result.Path, verdict, cachedSuffix(result)))
}

// LogSummary logs the counts of a discovery run at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.DiscoverySummary) {
	if cl.writer == nil || !allows(cl.logLevel, "info") {
		return
	}

	found := fmt.Sprintf("%d test executables", summary.TestExecutables)
	if cl.colorOutput {
		if summary.TestExecutables > 0 {
			found = color.New(color.FgGreen).Sprint(found)
		}
	}
	line := fmt.Sprintf("Discovery complete: %s in %d candidates (%d cached, %d failed) in %s",
		found, summary.Candidates, summary.Cached, summary.Failed, formatDuration(summary.Duration))
	if cl.colorOutput && summary.Failed > 0 {
		line = color.New(color.FgYellow).Sprint(line)
	}
	cl.write(line)
}

func verdictText(result models.DiscoveryResult) string {
	if result.IsTestExecutable {
		return "test executable"
	}
	return "not a test executable"
}

func cachedSuffix(result models.DiscoveryResult) string {
	if result.Cached {
		return " (cached)"
	}
	return ""
}

// formatDuration renders d as "450ms", "12.3s" or "2m5s".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogTrace is a no-op implementation.
func (n *NoOpLogger) LogTrace(string) {}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(string) {}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(string) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(string) {}

// LogDiscoveryStart is a no-op implementation.
func (n *NoOpLogger) LogDiscoveryStart(string, int) {}

// LogScanResult is a no-op implementation.
func (n *NoOpLogger) LogScanResult(models.DiscoveryResult) {}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(models.DiscoverySummary) {}

// Tee forwards every call to each of its loggers in order.
type Tee []Logger

// LogTrace forwards a trace message to every logger.
func (t Tee) LogTrace(message string) {
	for _, l := range t {
		l.LogTrace(message)
	}
}

// LogDebug forwards a debug message to every logger.
func (t Tee) LogDebug(message string) {
	for _, l := range t {
		l.LogDebug(message)
	}
}

// LogInfo forwards an info message to every logger.
func (t Tee) LogInfo(message string) {
	for _, l := range t {
		l.LogInfo(message)
	}
}

// LogWarn forwards a warning to every logger.
func (t Tee) LogWarn(message string) {
	for _, l := range t {
		l.LogWarn(message)
	}
}

// LogError forwards an error message to every logger.
func (t Tee) LogError(message string) {
	for _, l := range t {
		l.LogError(message)
	}
}

// LogDiscoveryStart forwards the start of a discovery run to every logger.
func (t Tee) LogDiscoveryStart(pattern string, candidates int) {
	for _, l := range t {
		l.LogDiscoveryStart(pattern, candidates)
	}
}

// LogScanResult forwards one candidate's verdict to every logger.
func (t Tee) LogScanResult(result models.DiscoveryResult) {
	for _, l := range t {
		l.LogScanResult(result)
	}
}

// LogSummary forwards the discovery summary to every logger.
func (t Tee) LogSummary(summary models.DiscoverySummary) {
	for _, l := range t {
		l.LogSummary(summary)
	}
}
