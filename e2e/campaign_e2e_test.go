package e2e

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-campaigns/app/audit"
	"github.com/vibast-solutions/ms-go-campaigns/app/campaign"
	"github.com/vibast-solutions/ms-go-campaigns/app/controller"
	"github.com/vibast-solutions/ms-go-campaigns/app/preparer"
	"github.com/vibast-solutions/ms-go-campaigns/app/provider"
	"github.com/vibast-solutions/ms-go-campaigns/app/source"
)

const campaignCSV = `Sender Name,Sender Email,Email Password,Recipient Name,Recipient Company,Recipient Email,Subject Line,Pitch,Sign-Off Phrase,Sender Title,End Line,Unsubscribe,Industry
Alice Reed,alice@x.com,pw1,Rita Vale,Acme Corp,r1@acme.com,Intro for [Recipient Name],We serve the {Industry} sector.,Best regards,Account Executive,Reply STOP to opt out.,,Retail
Alice Reed,alice@x.com,pw1,Ben Okoro,Beta LLC,r2@beta.com,Intro for [Recipient Name],We serve the {Industry} sector.,Best regards,Account Executive,Reply STOP to opt out.,,Finance
Bob Shaw,bob@x.com,pw2,Gail Ames,Gamma Inc,r3@gamma.com,Quick question,Plain pitch.,Regards,Sales Lead,Reply STOP to opt out.,remove,
Carol Kim,carol@x.com,pw3,Dora Lutz,Delta Co,r4@delta.com,Hello [Recipient Name],Another pitch.,Thanks,Director,Reply STOP to opt out.,,
Carol Kim,carol@x.com,pw3,Evan Page,Epsilon SA,r5@eps.com,Hello [Recipient Name],Another pitch.,Thanks,Director,Reply STOP to opt out.,,
Dan Voss,dan@x.com,pw4,Zoe Hart,Zeta AG,r6@zeta.com,Checking in,Short pitch.,Cheers,Partner,Reply STOP to opt out.,,
`

// stubTransport records every delivery attempt and can fail chosen
// recipients.
type stubTransport struct {
	mu     sync.Mutex
	errFor map[string]error
	sent   []provider.Message
}

func (p *stubTransport) Send(_ context.Context, msg provider.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.errFor[msg.Recipient]; ok {
		return err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *stubTransport) recipients() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]bool, len(p.sent))
	for _, m := range p.sent {
		out[m.Recipient] = true
	}
	return out
}

// TestCampaignEndToEnd loads a CSV, runs the full engine against a stub
// transport, and checks the audit log and progress endpoint afterwards.
func TestCampaignEndToEnd(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "recipients.csv")
	if err := os.WriteFile(csvPath, []byte(campaignCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	data, err := source.Load(csvPath)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if problems := source.Validate(data.Rows); len(problems) != 0 {
		t.Fatalf("unexpected validation problems: %v", problems)
	}
	if got := source.OptedOutCount(data.Rows); got != 1 {
		t.Fatalf("OptedOutCount = %d, want 1", got)
	}

	logPath := filepath.Join(dir, "sent_log.csv")
	sink, err := audit.NewCSVSink(logPath)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	transport := &stubTransport{errFor: map[string]error{
		"r4@delta.com": errors.New("454 4.7.0 daily sending limit exceeded"),
		"r6@zeta.com":  errors.New("uncommon glitch"),
	}}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := campaign.Config{
		Name:        "First Touch",
		RunID:       "e2e-run",
		RoundSize:   10,
		TaskTimeout: 5 * time.Second,
	}
	sched := campaign.New(cfg, preparer.FormatPlain,
		preparer.NewFirstTouchBuilder(preparer.FormatPlain),
		transport, sink, nil, logger)

	if err := sched.Run(context.Background(), data.Rows); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close sink: %v", err)
	}

	// Delivery attempts: the opted-out row and the blocked sender's second
	// row must never reach the transport.
	attempted := transport.recipients()
	for _, want := range []string{"r1@acme.com", "r2@beta.com"} {
		if !attempted[want] {
			t.Errorf("recipient %s was never delivered", want)
		}
	}
	for _, never := range []string{"r3@gamma.com", "r5@eps.com"} {
		if attempted[never] {
			t.Errorf("recipient %s must not reach the transport", never)
		}
	}

	// Audit log: header plus one record per row, statuses per recipient.
	f, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if len(records) != 1+len(data.Rows) {
		t.Fatalf("audit log has %d records, want %d", len(records), 1+len(data.Rows))
	}
	for i, h := range audit.Headers {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	col := func(name string) int {
		for i, h := range audit.Headers {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %q", name)
		return -1
	}
	byRecipient := make(map[string][]string)
	for _, rec := range records[1:] {
		byRecipient[rec[col("Recipient Email")]] = rec
	}

	wantStatus := map[string]string{
		"r1@acme.com":  "Sent",
		"r2@beta.com":  "Sent",
		"r3@gamma.com": "Skipped",
		"r4@delta.com": "Failed: Daily Sending Limit Exceeded",
		"r5@eps.com":   "Skipped",
		"r6@zeta.com":  "Failed: uncommon glitch",
	}
	for recipient, want := range wantStatus {
		rec, ok := byRecipient[recipient]
		if !ok {
			t.Errorf("no audit record for %s", recipient)
			continue
		}
		if got := rec[col("Status")]; got != want {
			t.Errorf("%s status = %q, want %q", recipient, got, want)
		}
	}

	if got := byRecipient["r3@gamma.com"][col("Error Type")]; got != "Unsubscribed/Opted-Out" {
		t.Errorf("opt-out error type = %q", got)
	}
	if got := byRecipient["r5@eps.com"][col("Error Type")]; got != "Sender Blocked" {
		t.Errorf("blocked-sender error type = %q", got)
	}

	// Final subjects are recorded post substitution; rows that never built
	// a message keep the raw template.
	if got := byRecipient["r1@acme.com"][col("Subject Line")]; got != "Intro for Rita Vale" {
		t.Errorf("r1 subject = %q", got)
	}
	if got := byRecipient["r3@gamma.com"][col("Subject Line")]; got != "Quick question" {
		t.Errorf("r3 subject = %q", got)
	}

	// Empty source fields land as N/A.
	if got := byRecipient["r4@delta.com"][col("Unsubscribe")]; got != "N/A" {
		t.Errorf("empty unsubscribe column = %q, want N/A", got)
	}

	// Progress endpoint view of the finished run.
	e := echo.New()
	e.GET("/progress", controller.NewProgressController(sched).Progress)
	srv := httptest.NewServer(e)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/progress")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress status = %d", resp.StatusCode)
	}

	var snap campaign.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if !snap.Done {
		t.Error("snapshot not marked done")
	}
	if snap.RunID != "e2e-run" || snap.Campaign != "First Touch" {
		t.Errorf("snapshot identity = %q/%q", snap.RunID, snap.Campaign)
	}
	if snap.Total != 6 || snap.Sent != 2 || snap.Failed != 2 || snap.Skipped != 2 {
		t.Errorf("snapshot counts = total %d sent %d failed %d skipped %d",
			snap.Total, snap.Sent, snap.Failed, snap.Skipped)
	}
	// Both passes were needed: alice and carol each appear twice.
	if snap.Pass != 2 {
		t.Errorf("snapshot pass = %d, want 2", snap.Pass)
	}
	if len(snap.BlockedSenders) != 1 || snap.BlockedSenders[0] != "carol@x.com" {
		t.Errorf("blocked senders = %v", snap.BlockedSenders)
	}
}
