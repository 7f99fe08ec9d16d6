package entity

import "strings"

// Canonical column names expected from the row source. Matching against
// incoming CSV headers is case-insensitive.
const (
	ColSenderName       = "Sender Name"
	ColSenderEmail      = "Sender Email"
	ColRecipientName    = "Recipient Name"
	ColRecipientCompany = "Recipient Company"
	ColRecipientEmail   = "Recipient Email"
	ColPassword         = "Email Password"
	ColSubject          = "Subject Line"
	ColPitch            = "Pitch"
	ColSignOff          = "Sign-Off Phrase"
	ColSenderTitle      = "Sender Title"
	ColEndLine          = "End Line"
	ColUnsubscribe      = "Unsubscribe"
	ColDateSent         = "Date Sent"
)

// optOutKeywords are the values of the Unsubscribe column that mark a
// recipient as opted out, compared case-insensitively.
var optOutKeywords = map[string]struct{}{
	"remove":      {},
	"unsubscribe": {},
	"opt-out":     {},
	"opt out":     {},
	"stop":        {},
	"yes":         {},
	"true":        {},
	"x":           {},
}

// Row is one recipient record from the row source. Required fields are
// typed; personalization columns the engine does not know about land in
// Extra keyed by their original header. Rows are read-only once built.
type Row struct {
	SenderName       string
	SenderEmail      string
	RecipientName    string
	RecipientCompany string
	RecipientEmail   string
	Password         string
	Subject          string
	Pitch            string
	SignOff          string
	SenderTitle      string
	EndLine          string
	Unsubscribe      string
	DateSent         string

	Extra map[string]string
}

// Fields returns every column of the row, typed and residual, keyed by
// canonical column name. Placeholder substitution iterates this map.
func (r Row) Fields() map[string]string {
	fields := map[string]string{
		ColSenderName:       r.SenderName,
		ColSenderEmail:      r.SenderEmail,
		ColRecipientName:    r.RecipientName,
		ColRecipientCompany: r.RecipientCompany,
		ColRecipientEmail:   r.RecipientEmail,
		ColSubject:          r.Subject,
		ColPitch:            r.Pitch,
		ColSignOff:          r.SignOff,
		ColSenderTitle:      r.SenderTitle,
		ColEndLine:          r.EndLine,
		ColUnsubscribe:      r.Unsubscribe,
		ColDateSent:         r.DateSent,
	}
	for k, v := range r.Extra {
		fields[k] = v
	}
	return fields
}

// SenderKey is the normalized sender identity used for blocklist and
// partitioning comparisons.
func (r Row) SenderKey() string {
	return strings.ToLower(strings.TrimSpace(r.SenderEmail))
}

// OptedOut reports whether the Unsubscribe column holds one of the opt-out
// keywords.
func (r Row) OptedOut() bool {
	_, ok := optOutKeywords[strings.ToLower(strings.TrimSpace(r.Unsubscribe))]
	return ok
}
