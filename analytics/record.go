package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque identifier as sent by the payments API. Some legacy
// records carry numeric ids, so both JSON strings and numbers decode.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Amount is a whole-currency-unit payment value. Numeric strings are
// accepted; anything unparseable, negative or non-finite decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

type UserRef struct {
	ID           ID     `json:"id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

type CourseRef struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	CourseFee Amount `json:"courseFee,omitempty"`
}

// PaymentRecord is one payment as delivered by the payments API. User and
// Course are optional; orphaned legacy payments have neither.
type PaymentRecord struct {
	ID            ID         `json:"id"`
	TransactionID string     `json:"transactionId"`
	User          *UserRef   `json:"user,omitempty"`
	Course        *CourseRef `json:"course,omitempty"`
	Amount        Amount     `json:"amount"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CardType      string     `json:"cardType,omitempty"`
	CreatedAt     string     `json:"createdAt"`
}

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusRefund    = "refund"

	// DefaultPaymentMethod is reported when a payment names neither a
	// method nor a card type: every checkout goes through SSLCommerz.
	DefaultPaymentMethod = "SSLCommerz"
)

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseCreatedAt reads an ISO timestamp. Zone-less values are taken to be
// in loc; the result is always expressed in loc.
func ParseCreatedAt(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), true
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// userKey identifies the student behind a payment. Payments without a
// user get a key of their own so they are never merged with anyone.
func (p *PaymentRecord) userKey() string {
	if p.User != nil && p.User.ID != "" {
		return string(p.User.ID)
	}
	return "anonymous_" + string(p.ID)
}

func (p *PaymentRecord) method() string {
	if m := strings.TrimSpace(p.PaymentMethod); m != "" {
		return m
	}
	if c := strings.TrimSpace(p.CardType); c != "" {
		return c
	}
	return DefaultPaymentMethod
}

// datedRecord pairs a payment with its parsed timestamp.
type datedRecord struct {
	*PaymentRecord
	at time.Time
}

// dated drops records whose createdAt cannot be parsed.
func dated(completed []*PaymentRecord, loc *time.Location) []datedRecord {
	out := make([]datedRecord, 0, len(completed))
	for _, p := range completed {
		if p == nil {
			continue
		}
		at, ok := ParseCreatedAt(p.CreatedAt, loc)
		if !ok {
			continue
		}
		out = append(out, datedRecord{PaymentRecord: p, at: at})
	}
	return out
}
