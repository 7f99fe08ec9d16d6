package provider

import "context"

// Message is a fully built outbound email plus the envelope and credential
// needed to deliver it. Raw holds the complete MIME document.
type Message struct {
	SenderName  string
	SenderEmail string
	Password    string
	Recipient   string
	Subject     string
	Raw         []byte
}

// Provider performs delivery of one message. The engine never inspects
// transport internals beyond the returned error.
type Provider interface {
	Send(ctx context.Context, msg Message) error
}
