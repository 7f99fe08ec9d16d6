package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPProvider delivers through an SMTPS endpoint (implicit TLS), logging in
// with each message's own sender credential. This is the transport for
// campaigns where every row carries its own mailbox.
type SMTPProvider struct {
	host string
	port string
}

// NewSMTPProvider builds a provider for the given SMTPS host and port.
func NewSMTPProvider(host, port string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port}
}

// Send authenticates as the message's sender and delivers the raw MIME
// document. The context deadline bounds the whole SMTP session.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	if msg.SenderEmail == "" {
		return fmt.Errorf("sender email is required")
	}
	if msg.Password == "" {
		return fmt.Errorf("sender credential is required")
	}
	if msg.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	if len(msg.Raw) == 0 {
		return fmt.Errorf("raw content is required")
	}

	addr := net.JoinHostPort(p.host, p.port)
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	tlsConn := tls.Client(conn, &tls.Config{ServerName: p.host})
	client, err := smtp.NewClient(tlsConn, p.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", msg.SenderEmail, msg.Password, p.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(msg.SenderEmail); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.Recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg.Raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}
