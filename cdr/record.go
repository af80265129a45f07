// Package cdr defines the canonical call record and turns raw carrier rows
// into it.
package cdr

import "regexp"

// Direction of a call relative to the account holder.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	DirectionUnknown  Direction = "unknown"
)

// ServiceType of a record.
type ServiceType string

const (
	ServiceVoice ServiceType = "voice"
	ServiceSMS   ServiceType = "sms"
	ServiceOther ServiceType = "other"
)

// UnknownAccount tags records of files whose subject number could not be
// extracted. The pipeline carries on; outputs are simply grouped under the
// sentinel.
const UnknownAccount = "Unknown"

// CallRecord is one normalized call or SMS event. Immutable once built;
// every record belongs to exactly one source file and account.
type CallRecord struct {
	AccountNumber      string
	CounterpartyNumber string
	Date               string
	Time               string
	DurationSeconds    int
	Direction          Direction
	Service            ServiceType
	FirstCellID        string
	FirstCellAddress   string
	LastCellID         string
	LastCellAddress    string
	DeviceIMEI         string
	SubscriberIMSI     string
	Roaming            string
	Night              bool
	SourceFile         string
}

// Timestamp is the sortable "date time" form used for first/last tracking.
// Export dates are zero-padded, so lexical order is chronological order.
func (r CallRecord) Timestamp() string {
	if r.Date == "" {
		return r.Time
	}
	if r.Time == "" {
		return r.Date
	}
	return r.Date + " " + r.Time
}

// Roams reports whether the record was logged outside the home network.
func (r CallRecord) Roams() bool { return r.Roaming != "" }

var nonDigitRE = regexp.MustCompile(`\D`)

// Digits strips everything but digits from a number string.
func Digits(s string) string { return nonDigitRE.ReplaceAllString(s, "") }

// Last10 reduces a number to its last ten digits, the comparison form for
// MSISDNs that may or may not carry a country prefix.
func Last10(s string) string {
	d := Digits(s)
	if len(d) > 10 {
		return d[len(d)-10:]
	}
	return d
}
