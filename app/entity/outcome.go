package entity

// Status is the terminal disposition of a send task.
type Status string

const (
	StatusSent    Status = "Sent"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
)

// Kind labels why a task failed or was skipped. The classifier may also
// return a free-text Kind holding a truncated raw error message.
type Kind string

const (
	KindNone                 Kind = ""
	KindDailyLimitExceeded   Kind = "Daily Sending Limit Exceeded"
	KindAuthenticationFailed Kind = "Authentication Failed"
	KindInvalidEmailAddress  Kind = "Invalid Email Address"
	KindRecipientRefused     Kind = "Recipient Refused"
	KindServerDisconnected   Kind = "Server Disconnected"
	KindConnectionTimeout    Kind = "Connection Timeout"
	KindRateLimited          Kind = "Rate Limited"
	KindTimedOut             Kind = "Timed Out"

	KindUnsubscribed  Kind = "Unsubscribed/Opted-Out"
	KindSenderBlocked Kind = "Sender Blocked"
)

// Outcome is the result every task resolves to exactly once.
type Outcome struct {
	Status Status
	Kind   Kind
}

func Sent() Outcome               { return Outcome{Status: StatusSent} }
func Failed(kind Kind) Outcome    { return Outcome{Status: StatusFailed, Kind: kind} }
func Skipped(reason Kind) Outcome { return Outcome{Status: StatusSkipped, Kind: reason} }

// StatusLabel renders the outcome the way the audit log records it.
func (o Outcome) StatusLabel() string {
	if o.Status == StatusFailed && o.Kind != KindNone {
		return string(StatusFailed) + ": " + string(o.Kind)
	}
	return string(o.Status)
}
