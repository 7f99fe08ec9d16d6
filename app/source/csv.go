// Package source loads recipient rows from a CSV file and validates that
// the columns the engine depends on are present before any sending starts.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

var ErrNoRows = errors.New("csv contains no data rows")

// requiredColumns must be non-empty on every row for a campaign to start.
var requiredColumns = []string{entity.ColSenderEmail, entity.ColRecipientEmail, entity.ColPassword}

// Data is the parsed row source: the declared column list in file order and
// one Row per data record.
type Data struct {
	Columns []string
	Rows    []entity.Row
}

// Load reads and parses the CSV file at path. Header names are matched to
// the engine's canonical columns case-insensitively; anything else is kept
// as a residual personalization column.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	header := records[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]entity.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, buildRow(columns, record))
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	return &Data{Columns: columns, Rows: rows}, nil
}

// buildRow maps one CSV record onto a typed Row plus residual columns.
// Short records are treated as if the missing trailing fields were empty.
func buildRow(columns []string, record []string) entity.Row {
	row := entity.Row{Extra: make(map[string]string)}

	for i, column := range columns {
		if column == "" {
			continue
		}
		var value string
		if i < len(record) {
			value = record[i]
		}

		switch strings.ToLower(column) {
		case strings.ToLower(entity.ColSenderName):
			row.SenderName = value
		case strings.ToLower(entity.ColSenderEmail):
			row.SenderEmail = value
		case strings.ToLower(entity.ColRecipientName):
			row.RecipientName = value
		case strings.ToLower(entity.ColRecipientCompany):
			row.RecipientCompany = value
		case strings.ToLower(entity.ColRecipientEmail):
			row.RecipientEmail = value
		case strings.ToLower(entity.ColPassword):
			row.Password = value
		case strings.ToLower(entity.ColSubject):
			row.Subject = value
		case strings.ToLower(entity.ColPitch):
			row.Pitch = value
		case strings.ToLower(entity.ColSignOff):
			row.SignOff = value
		case strings.ToLower(entity.ColSenderTitle):
			row.SenderTitle = value
		case strings.ToLower(entity.ColEndLine):
			row.EndLine = value
		case strings.ToLower(entity.ColUnsubscribe):
			row.Unsubscribe = value
		case strings.ToLower(entity.ColDateSent):
			row.DateSent = value
		default:
			row.Extra[column] = value
		}
	}

	return row
}

// Validate checks that every row carries the required columns and returns
// one message per offence, all of them, so the operator can fix the file in
// a single pass. An empty slice means the data is usable.
func Validate(rows []entity.Row) []string {
	var problems []string
	for i, row := range rows {
		for _, column := range requiredColumns {
			var value string
			switch column {
			case entity.ColSenderEmail:
				value = row.SenderEmail
			case entity.ColRecipientEmail:
				value = row.RecipientEmail
			case entity.ColPassword:
				value = row.Password
			}
			if strings.TrimSpace(value) == "" {
				problems = append(problems, fmt.Sprintf("row %d: missing %s", i+1, column))
			}
		}
	}
	return problems
}

// OptedOutCount reports how many rows carry an opt-out marker.
func OptedOutCount(rows []entity.Row) int {
	n := 0
	for _, row := range rows {
		if row.OptedOut() {
			n++
		}
	}
	return n
}
