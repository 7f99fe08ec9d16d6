package campaign

import (
	"testing"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

func row(sender, recipient string) entity.Row {
	return entity.Row{SenderEmail: sender, RecipientEmail: recipient}
}

func TestPartitionWindowUniqueSenders(t *testing.T) {
	t.Parallel()

	window := []entity.Row{
		row("a@x.com", "r1@y.com"),
		row("b@x.com", "r2@y.com"),
		row("a@x.com", "r3@y.com"),
		row("A@X.COM", "r4@y.com"),
		row("c@x.com", "r5@y.com"),
	}

	round, deferred := partitionWindow(window)

	if len(round) != 3 {
		t.Fatalf("round has %d rows, want 3", len(round))
	}
	if len(deferred) != 2 {
		t.Fatalf("deferred has %d rows, want 2", len(deferred))
	}

	seen := map[string]bool{}
	for _, r := range round {
		if seen[r.SenderKey()] {
			t.Fatalf("sender %q appears twice in one round", r.SenderKey())
		}
		seen[r.SenderKey()] = true
	}

	// First occurrence per sender survives, collision order preserved.
	if round[0].RecipientEmail != "r1@y.com" || round[1].RecipientEmail != "r2@y.com" || round[2].RecipientEmail != "r5@y.com" {
		t.Fatalf("unexpected round order: %+v", round)
	}
	if deferred[0].RecipientEmail != "r3@y.com" || deferred[1].RecipientEmail != "r4@y.com" {
		t.Fatalf("unexpected deferred order: %+v", deferred)
	}
}

func TestPartitionWindowAllDistinct(t *testing.T) {
	t.Parallel()

	window := []entity.Row{row("a@x.com", "r1"), row("b@x.com", "r2")}
	round, deferred := partitionWindow(window)

	if len(round) != 2 || len(deferred) != 0 {
		t.Fatalf("round=%d deferred=%d, want 2/0", len(round), len(deferred))
	}
}

func TestPartitionWindowEmptySenderStaysInRound(t *testing.T) {
	t.Parallel()

	window := []entity.Row{row("", "r1"), row("", "r2")}
	round, deferred := partitionWindow(window)

	// Empty senders must not be deferred or they would loop forever.
	if len(round) != 2 || len(deferred) != 0 {
		t.Fatalf("round=%d deferred=%d, want 2/0", len(round), len(deferred))
	}
}

func TestPartitionWindowEmptyInput(t *testing.T) {
	t.Parallel()

	round, deferred := partitionWindow(nil)
	if len(round) != 0 || len(deferred) != 0 {
		t.Fatalf("round=%d deferred=%d, want 0/0", len(round), len(deferred))
	}
}
