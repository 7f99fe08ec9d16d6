package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

func sampleRecord(recipient string, outcome entity.Outcome) Record {
	return Record{
		Row: entity.Row{
			SenderName:     "Jane Doe",
			SenderEmail:    "jane@x.com",
			RecipientEmail: recipient,
		},
		Subject:     "Hello",
		Outcome:     outcome,
		CompletedAt: time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC),
	}
}

func TestCSVSinkWritesHeaderAndRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	if err := sink.Append(context.Background(), sampleRecord("r1@y.com", entity.Sent())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sink.Append(context.Background(), sampleRecord("r2@y.com", entity.Failed(entity.KindRateLimited))); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if len(rows[0]) != len(Headers) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(Headers))
	}

	sent := rows[1]
	if sent[11] != "Sent" {
		t.Errorf("status column = %q, want Sent", sent[11])
	}
	if sent[2] != "N/A" {
		t.Errorf("missing recipient name should be N/A, got %q", sent[2])
	}
	if sent[13] != "2026-08-31" || sent[14] != "14:30:05" {
		t.Errorf("date/time columns = %q/%q", sent[13], sent[14])
	}

	failed := rows[2]
	if failed[11] != "Failed: Rate Limited" {
		t.Errorf("status column = %q", failed[11])
	}
	if failed[12] != "Rate Limited" {
		t.Errorf("error column = %q", failed[12])
	}
}

func TestCSVSinkConcurrentAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := sampleRecord(fmt.Sprintf("r%d@y.com", i), entity.Sent())
			if err := sink.Append(context.Background(), rec); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if sink.Rows() != 50 {
		t.Fatalf("Rows = %d, want 50", sink.Rows())
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v (interleaved writes corrupt the csv)", err)
	}
	if len(rows) != 51 {
		t.Fatalf("got %d rows, want 51", len(rows))
	}
	for _, row := range rows {
		if len(row) != len(Headers) {
			t.Fatalf("row has %d columns, want %d", len(row), len(Headers))
		}
	}
}

func TestRecordValuesOrder(t *testing.T) {
	t.Parallel()

	rec := Record{
		Row: entity.Row{
			SenderName:       "Jane",
			SenderEmail:      "jane@x.com",
			RecipientName:    "Ada",
			RecipientCompany: "Acme",
			RecipientEmail:   "ada@acme.com",
			Pitch:            "pitch",
			SignOff:          "Best",
			SenderTitle:      "CEO",
			EndLine:          "bye",
			Unsubscribe:      "no",
		},
		Subject:     "Hi Ada",
		Outcome:     entity.Skipped(entity.KindSenderBlocked),
		CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	values := rec.Values()
	if len(values) != len(Headers) {
		t.Fatalf("got %d values, want %d", len(values), len(Headers))
	}
	want := []string{
		"Jane", "jane@x.com", "Ada", "Acme", "ada@acme.com", "Hi Ada",
		"pitch", "Best", "CEO", "bye", "no",
		"Skipped", "Sender Blocked", "2026-01-02", "03:04:05",
	}
	for i, w := range want {
		if values[i] != w {
			t.Errorf("values[%d] = %q, want %q", i, values[i], w)
		}
	}
}
