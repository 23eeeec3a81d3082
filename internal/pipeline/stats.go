package pipeline

import "math"

// RunStats tracks aggregate counters and kilobyte totals across a batch run.
// Totals include successfully converted files only.
type RunStats struct {
	Total            int
	Current          int
	Converted        int
	Skipped          int
	Planned          int // dry-run
	Failed           int
	TotalOriginalKB  int64
	TotalOptimizedKB int64
}

// Add folds one converted record into the totals.
func (s *RunStats) Add(r *Record) {
	s.Converted++
	s.TotalOriginalKB += r.OriginalKB
	s.TotalOptimizedKB += r.OptimizedKB
}

// SavedKB returns the aggregate kilobyte difference between inputs and
// outputs. Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SavedKB() int64 {
	return s.TotalOriginalKB - s.TotalOptimizedKB
}

// SavingsPercent applies [SavingsPercent] to the aggregate totals.
func (s *RunStats) SavingsPercent() int {
	return SavingsPercent(s.TotalOriginalKB, s.TotalOptimizedKB)
}

// ToKB converts a byte count to whole kilobytes, rounding half up.
func ToKB(bytes int64) int64 {
	return int64(roundHalfUp(float64(bytes) / 1024))
}

// SavingsPercent returns round((original - optimized) / original * 100),
// rounding half up (toward +Inf). A zero original yields 0.
func SavingsPercent(originalKB, optimizedKB int64) int {
	if originalKB == 0 {
		return 0
	}
	return int(roundHalfUp(float64(originalKB-optimizedKB) / float64(originalKB) * 100))
}

// roundHalfUp rounds x to the nearest integer with ties toward +Inf, so
// -2.5 becomes -2 rather than math.Round's -3.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
