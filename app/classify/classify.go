// Package classify normalizes raw transport errors into the failure kinds
// the audit log records. Matching is priority-ordered keyword detection;
// the first group that matches wins.
package classify

import (
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

// maxOtherLen bounds the free-text kind used for unrecognized errors so log
// records stay compact.
const maxOtherLen = 80

// rules are checked in order. Daily-limit detection must precede the timeout
// and rate-limit checks: an error carrying both markers is a burned
// credential, not a transient slowdown.
var rules = []struct {
	kind    entity.Kind
	markers []string
}{
	{entity.KindDailyLimitExceeded, []string{"5.4.5", "daily user sending limit", "daily sending limit"}},
	{entity.KindAuthenticationFailed, []string{"5.5.1", "authentication failed", "invalid credentials", "username and password not accepted"}},
	{entity.KindInvalidEmailAddress, []string{"5.1.1", "bad email address", "address not found"}},
	{entity.KindRecipientRefused, []string{"recipient refused", "recipients refused"}},
	{entity.KindServerDisconnected, []string{"server disconnected", "connection reset", "broken pipe", "use of closed network connection"}},
	{entity.KindConnectionTimeout, []string{"connection timed out", "i/o timeout", "deadline exceeded"}},
	{entity.KindRateLimited, []string{"rate limit", "too many requests", "4.7.0"}},
}

// Classify maps a transport error to a normalized kind. Unrecognized errors
// yield a Kind holding the message itself, truncated to a bounded length.
func Classify(err error) entity.Kind {
	if err == nil {
		return entity.KindNone
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage is Classify for a raw error string.
func ClassifyMessage(msg string) entity.Kind {
	msg = strings.TrimSpace(msg)
	lower := strings.ToLower(msg)

	for _, rule := range rules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.kind
			}
		}
	}

	if len(msg) > maxOtherLen {
		return entity.Kind(msg[:maxOtherLen] + "...")
	}
	return entity.Kind(msg)
}
