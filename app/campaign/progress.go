package campaign

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of a running campaign, served by the
// progress endpoint and printed in the final summary.
type Snapshot struct {
	RunID          string    `json:"run_id"`
	Campaign       string    `json:"campaign"`
	Total          int       `json:"total"`
	Sent           int       `json:"sent"`
	Failed         int       `json:"failed"`
	Skipped        int       `json:"skipped"`
	Pass           int       `json:"pass"`
	Round          int       `json:"round"`
	BlockedSenders []string  `json:"blocked_senders"`
	StartedAt      time.Time `json:"started_at"`
	Done           bool      `json:"done"`
}

// Progress accumulates campaign counters. Tasks update it concurrently.
type Progress struct {
	mu       sync.Mutex
	snapshot Snapshot
}

func newProgress(runID, name string, total int) *Progress {
	return &Progress{snapshot: Snapshot{
		RunID:     runID,
		Campaign:  name,
		Total:     total,
		StartedAt: time.Now(),
	}}
}

func (p *Progress) observe(outcome outcomeClass) {
	p.mu.Lock()
	switch outcome {
	case outcomeSent:
		p.snapshot.Sent++
	case outcomeFailed:
		p.snapshot.Failed++
	case outcomeSkipped:
		p.snapshot.Skipped++
	}
	p.mu.Unlock()
}

func (p *Progress) setTotal(total int) {
	p.mu.Lock()
	p.snapshot.Total = total
	p.mu.Unlock()
}

func (p *Progress) setPosition(pass, round int) {
	p.mu.Lock()
	p.snapshot.Pass = pass
	p.snapshot.Round = round
	p.mu.Unlock()
}

func (p *Progress) finish() {
	p.mu.Lock()
	p.snapshot.Done = true
	p.mu.Unlock()
}

// Snapshot returns a copy of the current counters. BlockedSenders is filled
// by the scheduler, which owns the blocklist.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

type outcomeClass int

const (
	outcomeSent outcomeClass = iota
	outcomeFailed
	outcomeSkipped
)
