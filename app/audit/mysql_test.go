package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

func TestMySQLSinkAppend(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sink := NewMySQLSink(db, "run-1")
	completed := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO campaign_log").
		WithArgs("run-1", "jane@x.com", "ada@acme.com", "Hi Ada", "Sent", "", completed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := Record{
		Row:         entity.Row{SenderEmail: "jane@x.com", RecipientEmail: "ada@acme.com"},
		Subject:     "Hi Ada",
		Outcome:     entity.Sent(),
		CompletedAt: completed,
	}
	if err := sink.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("sink down")
	var second countingSink
	multi := MultiSink{failingSink{err: boom}, &second}

	err := multi.Append(context.Background(), Record{})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if second.appends != 0 {
		t.Fatalf("second sink saw %d appends, want 0", second.appends)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	t.Parallel()

	var a, b countingSink
	multi := MultiSink{&a, &b}

	if err := multi.Append(context.Background(), Record{}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if a.appends != 1 || b.appends != 1 {
		t.Fatalf("appends = %d/%d, want 1/1", a.appends, b.appends)
	}
}

type failingSink struct{ err error }

func (s failingSink) Append(_ context.Context, _ Record) error { return s.err }

type countingSink struct{ appends int }

func (s *countingSink) Append(_ context.Context, _ Record) error {
	s.appends++
	return nil
}
