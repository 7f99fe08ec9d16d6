// Package audit records one row per processed task. The sink is the
// campaign's permanent record: every task contributes exactly one record no
// matter how it terminated.
package audit

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

// Headers is the fixed column order of the audit log.
var Headers = []string{
	entity.ColSenderName, entity.ColSenderEmail, entity.ColRecipientName,
	entity.ColRecipientCompany, entity.ColRecipientEmail, entity.ColSubject,
	entity.ColPitch, entity.ColSignOff, entity.ColSenderTitle, entity.ColEndLine,
	entity.ColUnsubscribe, "Status", "Error Type", "Date Sent", "Time Sent",
}

// Record is one audit log entry.
type Record struct {
	Row         entity.Row
	Subject     string // final subject actually used, post substitution
	Outcome     entity.Outcome
	CompletedAt time.Time
}

// Values renders the record in the fixed header order.
func (r Record) Values() []string {
	return []string{
		orNA(r.Row.SenderName),
		orNA(r.Row.SenderEmail),
		orNA(r.Row.RecipientName),
		orNA(r.Row.RecipientCompany),
		orNA(r.Row.RecipientEmail),
		orNA(r.Subject),
		orNA(r.Row.Pitch),
		orNA(r.Row.SignOff),
		orNA(r.Row.SenderTitle),
		orNA(r.Row.EndLine),
		orNA(r.Row.Unsubscribe),
		r.Outcome.StatusLabel(),
		string(r.Outcome.Kind),
		r.CompletedAt.Format("2006-01-02"),
		r.CompletedAt.Format("15:04:05"),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Sink persists audit records. Implementations must serialize concurrent
// appends; tasks from one round call Append concurrently.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}
