package provider

import "context"

// NoopProvider pretends to send. Used for dry runs and tests.
type NoopProvider struct{}

// NewNoopProvider constructs a no-op provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Send returns nil without delivering anything.
func (p *NoopProvider) Send(_ context.Context, _ Message) error {
	return nil
}
