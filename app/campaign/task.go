package campaign

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-campaigns/app/audit"
	"github.com/vibast-solutions/ms-go-campaigns/app/classify"
	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
	"github.com/vibast-solutions/ms-go-campaigns/app/preparer"
)

// runTask processes a single row end to end: skip checks, randomized
// pre-send delay, message build, delivery, classification, and exactly one
// audit record. It never returns an error to the scheduler; every path,
// including panics from the builder or provider, resolves to a terminal
// outcome and a log write.
//
// ctx is already detached from the campaign's interrupt context: a task
// that has been dispatched runs to completion so the audit log stays a
// faithful record of everything attempted. The per-task timeout is the only
// deadline on it.
func (s *Scheduler) runTask(ctx context.Context, row entity.Row) {
	subject := row.Subject
	outcome := s.processRow(ctx, row, &subject)

	rec := audit.Record{
		Row:         row,
		Subject:     subject,
		Outcome:     outcome,
		CompletedAt: time.Now(),
	}
	// The record must land even when the task died to its own deadline.
	if err := s.sink.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.WithError(err).WithField("recipient", row.RecipientEmail).
			Error("audit append failed")
	}

	switch outcome.Status {
	case entity.StatusSent:
		s.progress.observe(outcomeSent)
		s.log.WithFields(logrus.Fields{
			"recipient": row.RecipientEmail,
			"sender":    row.SenderEmail,
		}).Info("sent")
	case entity.StatusSkipped:
		s.progress.observe(outcomeSkipped)
		s.log.WithFields(logrus.Fields{
			"recipient": row.RecipientEmail,
			"sender":    row.SenderEmail,
			"reason":    string(outcome.Kind),
		}).Info("skipped")
	default:
		s.progress.observe(outcomeFailed)
		s.log.WithFields(logrus.Fields{
			"recipient": row.RecipientEmail,
			"sender":    row.SenderEmail,
			"error":     string(outcome.Kind),
		}).Warn("send failed")
	}
}

// processRow runs the task pipeline and returns its terminal outcome,
// updating subject to the final rendered value once the message is built.
func (s *Scheduler) processRow(ctx context.Context, row entity.Row, subject *string) (outcome entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = entity.Failed(classify.ClassifyMessage(fmt.Sprint(r)))
		}
	}()

	// Opt-out wins over everything else: no delay, no delivery attempt.
	if row.OptedOut() {
		return entity.Skipped(entity.KindUnsubscribed)
	}
	if suppressed, err := s.suppressed.Contains(ctx, row.RecipientEmail); err != nil {
		// A broken suppression store must not stall the campaign; the
		// CSV opt-out column has already been honored.
		s.log.WithError(err).Warn("suppression lookup failed, using csv opt-out only")
	} else if suppressed {
		return entity.Skipped(entity.KindUnsubscribed)
	}

	if s.blocklist.IsBlocked(row.SenderEmail) {
		return entity.Skipped(entity.KindSenderBlocked)
	}

	if err := s.preSendWait(ctx); err != nil {
		return entity.Failed(entity.KindTimedOut)
	}

	var style preparer.FontStyle
	if s.format.Styled() {
		style = s.styles.Next()
	}

	built, err := s.builder.Build(row, style)
	if err != nil {
		return entity.Failed(classify.Classify(err))
	}
	*subject = built.Subject

	msg, err := preparer.BuildMessage(row, built)
	if err != nil {
		return entity.Failed(classify.Classify(err))
	}

	if err := s.provider.Send(ctx, msg); err != nil {
		kind := classify.Classify(err)
		if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
			// The round-completion ceiling expired, not the transport's
			// own timeout. Logged rather than silently abandoned.
			kind = entity.KindTimedOut
		}
		if kind == entity.KindDailyLimitExceeded {
			s.blockSender(row.SenderEmail)
		}
		return entity.Failed(kind)
	}

	return entity.Sent()
}

// preSendWait sleeps the randomized per-task delay and then waits on the
// optional global throughput limiter. Both respect the task deadline.
func (s *Scheduler) preSendWait(ctx context.Context) error {
	delay := randomDuration(s.cfg.TaskDelayMin, s.cfg.TaskDelayMax)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if s.limiter != nil {
		return s.limiter.Wait(ctx)
	}
	return nil
}

// blockSender adds the sender to the blocklist and announces first-time
// transitions.
func (s *Scheduler) blockSender(sender string) {
	if s.blocklist.Block(sender) {
		s.log.WithField("sender", sender).
			Warn("sender blocked: daily limit reached, remaining sends will be skipped")
	}
}

// randomDuration picks a uniformly random duration in [min, max].
func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}
