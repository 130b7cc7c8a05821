package optimizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"pdfpress/internal/engine"
	"pdfpress/pkg/pdfutil"
)

// Status classifies what the runner did with a discovered file.
type Status int

const (
	StatusOptimized Status = iota
	StatusSkipped
	StatusFailed
	// StatusCandidate is reported in dry runs for files that passed
	// every policy filter and would have been optimized.
	StatusCandidate
)

func (s Status) String() string {
	switch s {
	case StatusOptimized:
		return "optimized"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusCandidate:
		return "candidate"
	default:
		return "unknown"
	}
}

// Report is the per-file record handed back to the caller.
type Report struct {
	Path    string
	Status  Status
	Reason  string
	Outcome *Outcome
}

// Progress carries live counter deltas to an observer such as the TUI.
type Progress struct {
	FoundDelta      int
	OptimizedDelta  int
	SkippedDelta    int
	FailedDelta     int
	RepairedDelta   int
	BytesSavedDelta int64
}

// Options configure one directory run.
type Options struct {
	Level           Level
	Backup          bool
	SizeThresholdMB float64
	Repair          bool
	// Workers > 1 processes files in parallel; each file's pipeline
	// stays independent and stats are aggregated in one place.
	Workers int
	// DryRun applies every policy filter but modifies nothing.
	DryRun bool
}

// Runner walks a tree and drives the single-file optimizer over every
// candidate, accumulating RunStats.
type Runner struct {
	fs        afero.Fs
	opt       *Optimizer
	log       zerolog.Logger
	freeSpace func(dir string) (uint64, error)
}

// NewRunner returns a Runner processing files on fs through eng.
func NewRunner(fs afero.Fs, eng engine.Engine, log zerolog.Logger) *Runner {
	return &Runner{
		fs:        fs,
		opt:       New(fs, eng, log),
		log:       log,
		freeSpace: freeSpace,
	}
}

type job struct {
	path string
	size int64
}

type fileResult struct {
	report Report
	// size the file contributes to the byte totals when it was never
	// successfully attempted.
	size int64
}

// Run processes every PDF under root according to opts. Per-file
// failures never abort the walk; the only fatal error is an
// unenumerable root. Progress updates are sent to updates when it is
// non-nil; the channel is not closed by Run.
func (r *Runner) Run(ctx context.Context, root string, opts Options, updates chan<- Progress) (RunStats, []Report, error) {
	stats := newRunStats()

	info, err := r.fs.Stat(root)
	if err != nil {
		stats.finalize()
		return stats, nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		stats.finalize()
		return stats, nil, fmt.Errorf("%s is not a directory", root)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	params := ParamsFor(opts.Level)

	jobs := make(chan job)
	results := make(chan fileResult)

	pool, err := ants.NewPool(workers)
	if err != nil {
		stats.finalize()
		return stats, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		worker := func() {
			defer wg.Done()
			for j := range jobs {
				results <- r.processOne(j, params, opts)
			}
		}
		if err := pool.Submit(worker); err != nil {
			go worker()
		}
	}

	var reports []Report
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			switch res.report.Status {
			case StatusOptimized:
				out := res.report.Outcome
				stats.recordOptimized(*out)
				repaired := 0
				if out.Repaired {
					repaired = 1
				}
				send(updates, Progress{
					OptimizedDelta:  1,
					RepairedDelta:   repaired,
					BytesSavedDelta: out.BytesSaved(),
				})
			case StatusSkipped, StatusCandidate:
				stats.recordSkipped(res.size)
				send(updates, Progress{SkippedDelta: 1})
			case StatusFailed:
				stats.recordFailed(res.size)
				send(updates, Progress{FailedDelta: 1})
			}
			reports = append(reports, res.report)
		}
	}()

	// The walk is the sole producer; the ProcessedSet check-and-insert
	// happens here, before dispatch, so dedupe is atomic with respect
	// to a path's processing regardless of traversal order.
	processed := make(map[string]struct{})
	walkErr := afero.Walk(r.fs, root, func(path string, entry os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			r.log.Warn().Str("path", path).Err(err).Msg("cannot enumerate, skipping")
			return nil
		}
		if entry.IsDir() || !entry.Mode().IsRegular() {
			return nil
		}
		if !pdfutil.HasPDFExtension(path) || IsTempName(path) {
			return nil
		}

		abs := path
		if a, absErr := filepath.Abs(path); absErr == nil {
			abs = a
		}
		if _, seen := processed[abs]; seen {
			return nil
		}
		processed[abs] = struct{}{}

		send(updates, Progress{FoundDelta: 1})
		select {
		case jobs <- job{path: path, size: entry.Size()}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(jobs)
	wg.Wait()
	close(results)
	<-collectorDone

	stats.finalize()

	if walkErr != nil && ctx.Err() == nil {
		return stats, reports, walkErr
	}
	return stats, reports, ctx.Err()
}

// processOne applies the policy filters and, when they all pass, the
// single-file optimizer. Panics are contained here so one bad file
// never aborts the walk.
func (r *Runner) processOne(j job, params Params, opts Options) fileResult {
	info, err := r.fs.Stat(j.path)
	if err != nil || !info.Mode().IsRegular() {
		r.log.Error().Str("path", j.path).Err(err).Msg("cannot access file")
		return fileResult{report: Report{
			Path:   j.path,
			Status: StatusFailed,
			Reason: "cannot access file",
		}}
	}
	size := info.Size()

	if isPDF, sniffErr := pdfutil.SniffFile(r.fs, j.path); sniffErr == nil && !isPDF {
		return fileResult{
			report: Report{Path: j.path, Status: StatusSkipped, Reason: "content is not a pdf"},
			size:   size,
		}
	}

	if opts.SizeThresholdMB > 0 {
		sizeMB := float64(size) / (1 << 20)
		if sizeMB < opts.SizeThresholdMB {
			r.log.Debug().Str("path", j.path).Float64("size_mb", sizeMB).
				Msg("below size threshold, skipping")
			return fileResult{
				report: Report{Path: j.path, Status: StatusSkipped, Reason: "below size threshold"},
				size:   size,
			}
		}
	}

	// Staging needs room for a full second copy.
	if free, spaceErr := r.freeSpace(filepath.Dir(j.path)); spaceErr != nil {
		r.log.Warn().Str("path", j.path).Err(spaceErr).Msg("could not check free disk space")
	} else if free < uint64(size)*2 {
		r.log.Warn().Str("path", j.path).Msg("not enough disk space, skipping")
		return fileResult{
			report: Report{Path: j.path, Status: StatusSkipped, Reason: "not enough disk space"},
			size:   size,
		}
	}

	if opts.DryRun {
		return fileResult{
			report: Report{Path: j.path, Status: StatusCandidate, Reason: "would optimize"},
			size:   size,
		}
	}

	if opts.Backup {
		if backupErr := backupFile(r.fs, j.path); backupErr != nil {
			r.log.Warn().Str("path", j.path).Err(backupErr).Msg("could not create backup")
		}
	}

	out := r.safeOptimize(j.path, params, opts.Repair)
	if !out.Success {
		return fileResult{
			report: Report{Path: j.path, Status: StatusFailed, Reason: out.Failure.Error(), Outcome: &out},
			size:   out.OriginalSize,
		}
	}

	r.log.Info().Str("path", j.path).
		Int64("original_bytes", out.OriginalSize).
		Int64("new_bytes", out.NewSize).
		Bool("repaired", out.Repaired).
		Msg("optimized")
	return fileResult{report: Report{Path: j.path, Status: StatusOptimized, Outcome: &out}}
}

func (r *Runner) safeOptimize(path string, params Params, repair bool) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("path", path).Interface("panic", rec).
				Msg("unexpected failure while optimizing")
			out = Outcome{Path: path}.failed(ErrUnexpected, fmt.Errorf("panic: %v", rec))
		}
	}()
	return r.opt.OptimizeFile(path, params, repair)
}

func send(updates chan<- Progress, p Progress) {
	if updates == nil {
		return
	}
	updates <- p
}
