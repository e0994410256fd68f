package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks how many scenarios have finished. It is safe for
// concurrent use.
type Progress struct {
	total     int
	processed int
	failed    int
	start     time.Time

	mu sync.RWMutex
}

// NewProgress starts tracking total scenarios.
func NewProgress(total int) *Progress {
	return &Progress{total: total, start: time.Now()}
}

// Add records one finished scenario.
func (p *Progress) Add(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	if failed {
		p.failed++
	}
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentUnsafe()
}

// IsComplete reports whether every scenario has finished.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.processed >= p.total
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		Total:           p.total,
		Processed:       p.processed,
		Failed:          p.failed,
		PercentComplete: p.percentUnsafe(),
		Elapsed:         time.Since(p.start),
	}
}

func (p *Progress) percentUnsafe() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.processed) / float64(p.total) * percentMultiplier
}

// ProgressSnapshot is an immutable view of Progress.
type ProgressSnapshot struct {
	Total           int
	Processed       int
	Failed          int
	PercentComplete float64
	Elapsed         time.Duration
}
