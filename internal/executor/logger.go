package executor

import "github.com/harrison/gtprobe/internal/models"

// RuntimeLogger is the subset of logging the Runner needs.
type RuntimeLogger interface {
	LogDebug(message string)
	LogWarn(message string)
	LogError(message string)
}

// Logger receives discovery progress. logger.ConsoleLogger, logger.FileLogger
// and logger.Tee implement it.
type Logger interface {
	RuntimeLogger
	LogInfo(message string)
	LogDiscoveryStart(pattern string, candidates int)
	LogScanResult(result models.DiscoveryResult)
	LogSummary(summary models.DiscoverySummary)
}
