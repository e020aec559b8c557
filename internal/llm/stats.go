package llm

import (
	"slices"
	"sync"
	"time"
)

// Outcome classifies one GenerateContent round trip.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeStopped Outcome = "stopped"
	OutcomeFailed  Outcome = "failed"
)

type sample struct {
	at      time.Time
	ms      int64
	outcome Outcome
}

// StatsSnapshot aggregates the samples still inside the window.
type StatsSnapshot struct {
	Calls   int     `json:"calls"`
	Stopped int     `json:"stopped"`
	Failed  int     `json:"failed"`
	MinMs   int64   `json:"min_ms"`
	MaxMs   int64   `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P95Ms   float64 `json:"p95_ms"`
}

// LLMStats tracks recent model calls within a rolling window.
type LLMStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLLMStats(window time.Duration) *LLMStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LLMStats{
		samples: make([]sample, 0, 128),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one call. Negative durations count as zero.
func (s *LLMStats) Record(d time.Duration, outcome Outcome) {
	ms := max(d.Milliseconds(), 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, ms: ms, outcome: outcome})
}

func (s *LLMStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Calls: len(s.samples)}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		switch sm.outcome {
		case OutcomeStopped:
			snap.Stopped++
		case OutcomeFailed:
			snap.Failed++
		}
		values = append(values, sm.ms)
		sum += sm.ms
	}
	slices.Sort(values)

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	return snap
}

func (s *LLMStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between closest ranks of sorted values.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	w := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*w
}
