package optimizer

import "time"

// RunStats aggregates one directory run. Owned exclusively by the
// runner; every mutation happens on its collector goroutine.
type RunStats struct {
	TotalFiles     int
	OptimizedFiles int
	SkippedFiles   int
	FailedFiles    int
	RepairedFiles  int

	OriginalSizeBytes  int64
	OptimizedSizeBytes int64

	StartTime        time.Time
	EndTime          time.Time
	ReductionPercent float64
}

func newRunStats() RunStats {
	return RunStats{StartTime: time.Now()}
}

// Duration returns the wall-clock span of the run.
func (s RunStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

func (s *RunStats) recordOptimized(out Outcome) {
	s.TotalFiles++
	s.OptimizedFiles++
	if out.Repaired {
		s.RepairedFiles++
	}
	s.OriginalSizeBytes += out.OriginalSize
	s.OptimizedSizeBytes += out.NewSize
}

// recordSkipped books a file that was never attempted. Its size lands
// in both byte totals: no change assumed.
func (s *RunStats) recordSkipped(size int64) {
	s.TotalFiles++
	s.SkippedFiles++
	s.OriginalSizeBytes += size
	s.OptimizedSizeBytes += size
}

// recordFailed books a failed file. Failed files contribute no change
// to the "after" total.
func (s *RunStats) recordFailed(size int64) {
	s.TotalFiles++
	s.FailedFiles++
	s.OriginalSizeBytes += size
	s.OptimizedSizeBytes += size
}

// finalize stamps the end time and derives the overall reduction.
// Called exactly once, after the walk completes.
func (s *RunStats) finalize() {
	s.EndTime = time.Now()
	if s.OriginalSizeBytes > 0 {
		s.ReductionPercent = float64(s.OriginalSizeBytes-s.OptimizedSizeBytes) /
			float64(s.OriginalSizeBytes) * 100
	}
}
