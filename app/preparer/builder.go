// Package preparer builds the outbound documents: personalized subject,
// plain-text body, optional HTML body, and the raw MIME message handed to
// the transport. The campaign engine never inspects body contents; it only
// records the final subject.
package preparer

import (
	"fmt"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
	"github.com/vibast-solutions/ms-go-campaigns/app/placeholder"
)

// Format selects how the message body is themed.
type Format int

const (
	// FormatMixed renders HTML with a rotating font theme per send.
	FormatMixed Format = iota + 1
	// FormatVerdana renders HTML with the fixed Verdana theme.
	FormatVerdana
	// FormatPlain emits plain text only, no HTML alternative.
	FormatPlain
)

// ParseFormat maps a CLI/config token to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "mixed", "1":
		return FormatMixed, nil
	case "verdana", "2":
		return FormatVerdana, nil
	case "plain", "3":
		return FormatPlain, nil
	default:
		return 0, fmt.Errorf("unsupported format %q (want mixed, verdana or plain)", s)
	}
}

// Styled reports whether the format consumes a style from the rotation.
func (f Format) Styled() bool { return f == FormatMixed }

// Built is a fully rendered message before MIME assembly. HTML is empty for
// plain-only formats.
type Built struct {
	Subject string
	Plain   string
	HTML    string
}

// Builder produces a message for one row. Style is only consulted by
// formats that rotate themes; fixed formats ignore it.
type Builder interface {
	Build(row entity.Row, style FontStyle) (Built, error)
}

// rowText holds the cleaned, substituted fragments shared by both builders.
type rowText struct {
	senderName  string
	subject     string
	plainPitch  string
	htmlPitch   string
	signOff     string
	senderTitle string
	endLine     string
}

func renderRow(row entity.Row) rowText {
	subject := placeholder.Substitute(placeholder.CleanText(row.Subject), row)
	pitch := placeholder.Substitute(placeholder.CleanText(row.Pitch), row)
	plain, html := placeholder.ApplyBold(pitch)

	return rowText{
		senderName:  placeholder.CleanText(row.SenderName),
		subject:     subject,
		plainPitch:  plain,
		htmlPitch:   html,
		signOff:     placeholder.CleanText(row.SignOff),
		senderTitle: placeholder.CleanText(row.SenderTitle),
		endLine:     placeholder.CleanText(row.EndLine),
	}
}

// styleFor resolves the effective style for a format.
func styleFor(format Format, style FontStyle) FontStyle {
	if format == FormatVerdana {
		return VerdanaStyle
	}
	return style
}
