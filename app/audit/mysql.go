package audit

import (
	"context"
	"database/sql"
)

// MySQLSink mirrors audit records into a campaign_log table so outcomes can
// be queried across runs. database/sql serializes access to the pool, so no
// extra locking is needed here.
type MySQLSink struct {
	db    *sql.DB
	runID string
}

// NewMySQLSink constructs a sink writing to the given database, tagging
// every record with the campaign run ID.
func NewMySQLSink(db *sql.DB, runID string) *MySQLSink {
	return &MySQLSink{db: db, runID: runID}
}

// Append inserts one audit record.
func (s *MySQLSink) Append(ctx context.Context, rec Record) error {
	const query = `
		INSERT INTO campaign_log (run_id, sender_email, recipient_email, subject, status, error_type, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		s.runID,
		rec.Row.SenderEmail,
		rec.Row.RecipientEmail,
		rec.Subject,
		rec.Outcome.StatusLabel(),
		string(rec.Outcome.Kind),
		rec.CompletedAt,
	)
	return err
}

// MultiSink fans one append out to several sinks, stopping at the first
// error so a failed write is never silently dropped.
type MultiSink []Sink

// Append writes the record to every sink in order.
func (m MultiSink) Append(ctx context.Context, rec Record) error {
	for _, s := range m {
		if err := s.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
