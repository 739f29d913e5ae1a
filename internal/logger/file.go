package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/gtprobe/internal/models"
)

// FileLogger writes one log file per run into a log directory and keeps a
// latest.log symlink pointing at the most recent run. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to .gtprobe/logs/ at level "info".
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.Join(".gtprobe", "logs"), "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.mmm.log keeps runs started within one second apart
	timestamp := time.Now().Format("20060102-150405.000")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== gtprobe Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !allows(fl.logLevel, strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(TimestampMessage(fmt.Sprintf("[%s] %s", level, message)) + "\n")
}

// LogDiscoveryStart records the pattern and candidate count at INFO level.
func (fl *FileLogger) LogDiscoveryStart(pattern string, candidates int) {
	fl.LogInfo(fmt.Sprintf("Scanning %d candidates for %s", candidates, pattern))
}

// LogScanResult records every verdict. Verdicts are always written to the
// file regardless of level so a run can be audited afterwards.
func (fl *FileLogger) LogScanResult(result models.DiscoveryResult) {
	if result.Failed() {
		fl.LogWarn(fmt.Sprintf("%s: %s", result.Path, result.Error))
		return
	}
	fl.writeRunLog(TimestampMessage(fmt.Sprintf("[SCAN] %s: %s%s", result.Path, verdictText(result), cachedSuffix(result))) + "\n")
}

// LogSummary writes the run statistics at INFO level.
func (fl *FileLogger) LogSummary(summary models.DiscoverySummary) {
	if !allows(fl.logLevel, "info") {
		return
	}

	var b strings.Builder
	b.WriteString("\n=== Discovery Summary ===\n")
	fmt.Fprintf(&b, "Pattern: %s\n", summary.Pattern)
	fmt.Fprintf(&b, "Candidates: %d\n", summary.Candidates)
	fmt.Fprintf(&b, "Test executables: %d\n", summary.TestExecutables)
	fmt.Fprintf(&b, "Cached: %d\n", summary.Cached)
	fmt.Fprintf(&b, "Failed: %d\n", summary.Failed)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(summary.Duration))
	fl.writeRunLog(b.String())
}

// writeRunLog writes a message to the run log file (thread-safe).
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}

// Close closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		err := fl.runLog.Close()
		fl.runLog = nil
		return err
	}
	return nil
}
