// Package suppress holds the shared recipient opt-out list. The CSV
// Unsubscribe column only covers opt-outs known when the file was exported;
// this list catches recipients who opted out since.
package suppress

import "context"

// List answers whether a recipient must not be contacted. Lookups happen
// once per task, before any delivery attempt.
type List interface {
	Contains(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, email string) error
}

// NoopList is the suppression list used when no shared store is configured.
type NoopList struct{}

// Contains always reports false.
func (NoopList) Contains(_ context.Context, _ string) (bool, error) { return false, nil }

// Add discards the address.
func (NoopList) Add(_ context.Context, _ string) error { return nil }
