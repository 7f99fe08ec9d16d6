// Package campaign is the dispatch engine: it partitions pending rows into
// rounds of unique senders, fans each round out concurrently, paces between
// rounds, and re-feeds deferred rows until every row has resolved.
package campaign

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vibast-solutions/ms-go-campaigns/app/audit"
	"github.com/vibast-solutions/ms-go-campaigns/app/blocklist"
	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
	"github.com/vibast-solutions/ms-go-campaigns/app/preparer"
	"github.com/vibast-solutions/ms-go-campaigns/app/provider"
	"github.com/vibast-solutions/ms-go-campaigns/app/suppress"
)

// Config carries the engine-level knobs, independent of CLI wording.
type Config struct {
	Name  string // campaign label, e.g. "First Touch"
	RunID string

	RoundSize    int           // max rows considered per round window
	TaskDelayMin time.Duration // randomized pre-send delay range
	TaskDelayMax time.Duration
	PaceMin      time.Duration // randomized inter-round pause range
	PaceMax      time.Duration
	TaskTimeout  time.Duration // per-task wall-clock ceiling
	SendsPerSec  float64       // global throughput cap, 0 disables
}

// Scheduler orchestrates one campaign run. Rounds never overlap; within a
// round, tasks run concurrently and share only the blocklist, the style
// rotation, and the audit sink.
type Scheduler struct {
	cfg        Config
	format     preparer.Format
	builder    preparer.Builder
	styles     *preparer.StyleRotation
	provider   provider.Provider
	sink       audit.Sink
	suppressed suppress.List
	blocklist  *blocklist.Blocklist
	limiter    *rate.Limiter
	progress   *Progress
	log        *logrus.Entry
}

// New wires a scheduler. The style rotation is created here so it is shared
// by every task of the run and advances exactly once per styled send.
func New(cfg Config, format preparer.Format, builder preparer.Builder, prov provider.Provider, sink audit.Sink, suppressed suppress.List, logger *logrus.Logger) *Scheduler {
	if cfg.RoundSize < 1 {
		cfg.RoundSize = 1
	}
	var limiter *rate.Limiter
	if cfg.SendsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendsPerSec), 1)
	}
	if suppressed == nil {
		suppressed = suppress.NoopList{}
	}
	return &Scheduler{
		cfg:        cfg,
		format:     format,
		builder:    builder,
		styles:     preparer.NewStyleRotation(nil),
		provider:   prov,
		sink:       sink,
		suppressed: suppressed,
		blocklist:  blocklist.New(),
		limiter:    limiter,
		progress:   newProgress(cfg.RunID, cfg.Name, 0),
		log: logger.WithFields(logrus.Fields{
			"campaign": cfg.Name,
			"run_id":   cfg.RunID,
		}),
	}
}

// Progress returns a snapshot of the run, including blocked senders.
func (s *Scheduler) Progress() Snapshot {
	snap := s.progress.Snapshot()
	snap.BlockedSenders = s.blocklist.Senders()
	return snap
}

// BlockedSenders lists the senders blocked so far in this run.
func (s *Scheduler) BlockedSenders() []string {
	return s.blocklist.Senders()
}

// Run executes the campaign over the given rows and blocks until every row
// has resolved or ctx is canceled. Cancellation stops new rounds from
// launching; tasks already in flight finish and log their outcome first.
// The returned error is ctx's error when the run was interrupted, nil when
// it ran to completion.
func (s *Scheduler) Run(ctx context.Context, rows []entity.Row) error {
	s.progress.setTotal(len(rows))
	defer s.progress.finish()

	s.log.WithField("rows", len(rows)).Info("campaign started")

	pending := rows
	for pass := 1; len(pending) > 0; pass++ {
		if ctx.Err() != nil {
			break
		}
		if pass > 1 {
			s.log.WithFields(logrus.Fields{
				"pass":     pass,
				"deferred": len(pending),
			}).Info("processing deferred rows")
		}

		deferred := s.runPass(ctx, pass, pending)
		if len(deferred) == 0 {
			break
		}
		// Each pass dispatches at least one row per distinct sender, so
		// the deferred set shrinks strictly and the loop terminates.
		pending = deferred
	}

	if err := ctx.Err(); err != nil {
		s.log.Warn("campaign interrupted, in-flight tasks were allowed to finish")
		return err
	}
	s.log.Info("campaign complete")
	return nil
}

// runPass walks the pending queue window by window, dispatching one round
// per window and collecting sender collisions for the next pass.
func (s *Scheduler) runPass(ctx context.Context, pass int, pending []entity.Row) []entity.Row {
	var deferred []entity.Row
	totalRounds := (len(pending) + s.cfg.RoundSize - 1) / s.cfg.RoundSize

	for start := 0; start < len(pending); start += s.cfg.RoundSize {
		if ctx.Err() != nil {
			return nil
		}

		end := min(start+s.cfg.RoundSize, len(pending))
		round, collided := partitionWindow(pending[start:end])
		deferred = append(deferred, collided...)

		roundNum := start/s.cfg.RoundSize + 1
		s.progress.setPosition(pass, roundNum)
		roundLog := s.log.WithFields(logrus.Fields{
			"pass":  pass,
			"round": roundNum,
			"of":    totalRounds,
		})

		if len(round) == 0 {
			// Every row in the window collided; advance without pacing.
			roundLog.Info("round skipped, no unique senders")
			continue
		}

		roundLog.WithFields(logrus.Fields{
			"tasks":    len(round),
			"deferred": len(collided),
		}).Info("round dispatched")

		started := time.Now()
		s.dispatch(ctx, round)
		roundLog.WithField("took", time.Since(started).Round(time.Second)).Info("round complete")

		if end < len(pending) || len(deferred) > 0 {
			if !s.pace(ctx) {
				return deferred
			}
		}
	}
	return deferred
}

// dispatch fans the round out, one goroutine per row, and blocks until all
// of them have resolved. Each task carries its own deadline, detached from
// the interrupt context, so the wait here is bounded.
func (s *Scheduler) dispatch(ctx context.Context, round []entity.Row) {
	base := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for _, row := range round {
		wg.Add(1)
		go func(row entity.Row) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(base, s.cfg.TaskTimeout)
			defer cancel()
			s.runTask(taskCtx, row)
		}(row)
	}
	wg.Wait()
}

// pace sleeps a random inter-round pause, the campaign's main rate-limiting
// mechanism. Returns false if ctx was canceled during the pause.
func (s *Scheduler) pace(ctx context.Context) bool {
	pause := randomDuration(s.cfg.PaceMin, s.cfg.PaceMax)
	if pause <= 0 {
		return true
	}
	s.log.WithField("pause", pause.Round(time.Second)).Info("pacing before next round")
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
