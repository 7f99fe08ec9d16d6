package preparer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
	"github.com/vibast-solutions/ms-go-campaigns/app/provider"
)

// BuildMessage assembles the raw MIME document for a built message and wraps
// it in the transport envelope. Messages with an HTML body become
// multipart/alternative with the plain part first.
func BuildMessage(row entity.Row, built Built) (provider.Message, error) {
	sender := strings.TrimSpace(row.SenderEmail)
	recipient := strings.TrimSpace(row.RecipientEmail)
	if sender == "" {
		return provider.Message{}, fmt.Errorf("sender email is required")
	}
	if recipient == "" {
		return provider.Message{}, fmt.Errorf("recipient email is required")
	}
	if strings.ContainsAny(built.Subject, "\r\n") {
		return provider.Message{}, fmt.Errorf("subject contains invalid characters")
	}

	from := fmt.Sprintf("%q <%s>", strings.TrimSpace(row.SenderName), sender)

	var b strings.Builder
	b.WriteString("From: ")
	b.WriteString(from)
	b.WriteString("\r\n")
	b.WriteString("To: ")
	b.WriteString(recipient)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(built.Subject)
	b.WriteString("\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if built.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		b.WriteString("\r\n")
		b.WriteString(built.Plain)
	} else {
		boundary, err := mimeBoundary()
		if err != nil {
			return provider.Message{}, err
		}
		b.WriteString("Content-Type: multipart/alternative; boundary=\"")
		b.WriteString(boundary)
		b.WriteString("\"\r\n\r\n")

		b.WriteString("--")
		b.WriteString(boundary)
		b.WriteString("\r\n")
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		b.WriteString("\r\n")
		b.WriteString(built.Plain)
		b.WriteString("\r\n")

		b.WriteString("--")
		b.WriteString(boundary)
		b.WriteString("\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		b.WriteString("\r\n")
		b.WriteString(built.HTML)
		b.WriteString("\r\n")

		b.WriteString("--")
		b.WriteString(boundary)
		b.WriteString("--\r\n")
	}

	return provider.Message{
		SenderName:  strings.TrimSpace(row.SenderName),
		SenderEmail: sender,
		Password:    strings.TrimSpace(row.Password),
		Recipient:   recipient,
		Subject:     built.Subject,
		Raw:         []byte(b.String()),
	}, nil
}

// mimeBoundary returns a random multipart boundary.
func mimeBoundary() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "part-" + hex.EncodeToString(buf), nil
}
