package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESProvider delivers via AWS SES. Per-row credentials are ignored; SES
// authenticates with the ambient AWS configuration, so this transport suits
// single-identity deployments where every sender address is a verified SES
// identity.
type SESProvider struct {
	client *sesv2.Client
}

// NewSESProvider builds a provider that sends email via AWS SES.
func NewSESProvider(cfg aws.Config) *SESProvider {
	return &SESProvider{client: sesv2.NewFromConfig(cfg)}
}

// Send delivers the raw MIME message via SES.
func (p *SESProvider) Send(ctx context.Context, msg Message) error {
	if msg.SenderEmail == "" {
		return fmt.Errorf("sender email is required")
	}
	if msg.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	if len(msg.Raw) == 0 {
		return fmt.Errorf("raw content is required")
	}

	from := msg.SenderEmail
	if msg.SenderName != "" {
		from = fmt.Sprintf("%q <%s>", msg.SenderName, msg.SenderEmail)
	}

	_, err := p.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.Recipient},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: msg.Raw},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send raw email: %w", err)
	}

	return nil
}
