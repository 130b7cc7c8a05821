package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsReduction(t *testing.T) {
	s := newRunStats()
	s.recordOptimized(Outcome{Success: true, OriginalSize: 8000, NewSize: 2000})
	s.recordSkipped(1000)
	s.recordFailed(1000)
	s.finalize()

	assert.Equal(t, 3, s.TotalFiles)
	assert.Equal(t, int64(10000), s.OriginalSizeBytes)
	assert.Equal(t, int64(4000), s.OptimizedSizeBytes)
	assert.Equal(t, 60.0, s.ReductionPercent)
	assert.False(t, s.EndTime.Before(s.StartTime))
}

func TestStatsReductionGuardsDivisionByZero(t *testing.T) {
	s := newRunStats()
	s.finalize()

	assert.Equal(t, 0.0, s.ReductionPercent)
}

func TestStatsRepairedCount(t *testing.T) {
	s := newRunStats()
	s.recordOptimized(Outcome{Success: true, Repaired: true, OriginalSize: 100, NewSize: 50})
	s.recordOptimized(Outcome{Success: true, OriginalSize: 100, NewSize: 50})

	assert.Equal(t, 2, s.OptimizedFiles)
	assert.Equal(t, 1, s.RepairedFiles)
}
