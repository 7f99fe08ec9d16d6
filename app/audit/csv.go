package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// CSVSink appends audit records to a CSV file. A mutex serializes writers
// and every record is flushed immediately so an interrupted run still keeps
// everything it attempted.
type CSVSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	rows int
}

// NewCSVSink creates the log file at path and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Headers); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write audit header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flush audit header: %w", err)
	}

	return &CSVSink{f: f, w: w}, nil
}

// Append writes one record and flushes it to disk.
func (s *CSVSink) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Write(rec.Values()); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush audit record: %w", err)
	}
	s.rows++
	return nil
}

// Rows reports how many records have been appended.
func (s *CSVSink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
