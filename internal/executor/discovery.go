package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harrison/gtprobe/internal/cache"
	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/harrison/gtprobe/internal/models"
	"golang.org/x/text/encoding"
)

// Error texts reported for candidates without a verdict.
const (
	errScanTimedOut   = "scan timed out"
	errScanIncomplete = "scan did not complete"
)

// scanFile classifies one candidate. Tests replace it to control scan timing.
var scanFile = fileutil.BinaryFileContainsStrings

// ScanCache stores verdicts so unchanged binaries are not read again.
// *cache.Store implements it.
type ScanCache interface {
	Lookup(ctx context.Context, key cache.Key) (isTest bool, found bool, err error)
	Record(ctx context.Context, key cache.Key, isTest bool) error
}

// DiscoveryOptions configures a Discoverer.
type DiscoveryOptions struct {
	Syntax       fileutil.PathSyntax
	EncodingName string
	Markers      models.MarkerSet
	// Timeout bounds the parallel scan; <= 0 waits for every candidate.
	Timeout time.Duration
	// Recursive also searches subdirectories of the pattern's directory.
	Recursive bool
}

// Discoverer finds test executables matching a file pattern.
type Discoverer struct {
	opts     DiscoveryOptions
	encoding encoding.Encoding
	cache    ScanCache
	logger   Logger
	runner   *Runner
}

// NewDiscoverer resolves the configured encoding. cache and logger may be nil.
func NewDiscoverer(opts DiscoveryOptions, scanCache ScanCache, logger Logger) (*Discoverer, error) {
	if opts.Syntax == nil {
		opts.Syntax = fileutil.HostSyntax()
	}
	if opts.EncodingName == "" {
		opts.EncodingName = "ascii"
	}
	if len(opts.Markers.Markers) == 0 {
		opts.Markers = models.GoogleTestMarkers
	}

	enc, err := fileutil.LookupEncoding(opts.EncodingName)
	if err != nil {
		return nil, err
	}

	var runtimeLogger RuntimeLogger
	if logger != nil {
		runtimeLogger = logger
	}

	return &Discoverer{
		opts:     opts,
		encoding: enc,
		cache:    scanCache,
		logger:   logger,
		runner:   NewRunner(runtimeLogger),
	}, nil
}

// Discover validates pattern, lists the matching files and scans them in
// parallel for markers. Results are sorted by path. Candidates that could
// not be scanned carry an Error instead of failing the whole call.
func (d *Discoverer) Discover(ctx context.Context, pattern string) ([]models.DiscoveryResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := fileutil.ValidatePattern(pattern, d.opts.Syntax); err != nil {
		return nil, err
	}
	dir, glob := fileutil.SplitPattern(pattern, d.opts.Syntax)

	candidates, err := fileutil.FindCandidates(dir, glob, fileutil.FindOptions{
		CaseInsensitive: d.opts.Syntax.CaseInsensitive(),
		Recursive:       d.opts.Recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates for %s: %w", pattern, err)
	}
	if d.logger != nil {
		d.logger.LogDiscoveryStart(pattern, len(candidates))
	}

	results := make([]models.DiscoveryResult, len(candidates))
	var pending []int
	for i, c := range candidates {
		results[i] = models.DiscoveryResult{Path: c.Path, Size: c.Size, ModTime: c.ModTime}
		if isTest, ok := d.lookup(ctx, c); ok {
			results[i].IsTestExecutable = isTest
			results[i].Cached = true
			continue
		}
		pending = append(pending, i)
	}

	scanned, runResult := d.scanAll(candidates, pending)

	for _, i := range pending {
		r, ok := scanned[i]
		switch {
		case ok:
			results[i].IsTestExecutable = r.IsTestExecutable
			results[i].Error = r.Error
			if r.Error == "" {
				d.record(ctx, candidates[i], r.IsTestExecutable)
			}
		case runResult.TimedOut:
			results[i].Error = errScanTimedOut
		default:
			results[i].Error = errScanIncomplete
		}
	}

	if d.logger != nil {
		for _, r := range results {
			d.logger.LogScanResult(r)
		}
		d.logger.LogSummary(models.Summarize(pattern, results, time.Since(start)))
	}
	return results, nil
}

// scanAll scans the pending candidates in parallel. The returned map is a
// snapshot: scans finishing after a timeout are not part of it.
func (d *Discoverer) scanAll(candidates []fileutil.Candidate, pending []int) (map[int]models.DiscoveryResult, RunResult) {
	var mu sync.Mutex
	finished := make(map[int]models.DiscoveryResult, len(pending))

	tasks := make([]func(), 0, len(pending))
	for _, i := range pending {
		i := i
		path := candidates[i].Path
		tasks = append(tasks, func() {
			var r models.DiscoveryResult
			isTest, err := scanFile(path, d.encoding, d.opts.Markers.Markers)
			if err != nil {
				r.Error = err.Error()
			}
			r.IsTestExecutable = isTest

			mu.Lock()
			defer mu.Unlock()
			if finished != nil {
				finished[i] = r
			}
		})
	}

	runResult := d.runner.Run(tasks, d.opts.Timeout)

	mu.Lock()
	defer mu.Unlock()
	snapshot := finished
	finished = nil
	return snapshot, runResult
}

func (d *Discoverer) key(c fileutil.Candidate) cache.Key {
	return cache.Key{
		Path:      c.Path,
		Size:      c.Size,
		ModTime:   c.ModTime,
		Encoding:  d.opts.EncodingName,
		MarkerSet: d.opts.Markers.Fingerprint(),
	}
}

func (d *Discoverer) lookup(ctx context.Context, c fileutil.Candidate) (bool, bool) {
	if d.cache == nil {
		return false, false
	}
	isTest, found, err := d.cache.Lookup(ctx, d.key(c))
	if err != nil {
		d.warn(fmt.Errorf("cache lookup for %s: %w", c.Path, err))
		return false, false
	}
	return isTest, found
}

func (d *Discoverer) record(ctx context.Context, c fileutil.Candidate, isTest bool) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Record(ctx, d.key(c), isTest); err != nil {
		d.warn(fmt.Errorf("cache update for %s: %w", c.Path, err))
	}
}

func (d *Discoverer) warn(err error) {
	if d.logger != nil {
		d.logger.LogWarn(err.Error())
	}
}
