package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/sirupsen/logrus"
)

// ErrUpstream marks a payments source that answered but could not be used.
// Callers must not aggregate on it.
var ErrUpstream = errors.New("payments upstream failure")

// Source yields the full, authoritative payment list.
type Source interface {
	Fetch(ctx context.Context) ([]*analytics.PaymentRecord, error)
}

// RangeSource is a Source that can narrow a fetch to payments created in
// [from, to).
type RangeSource interface {
	Source
	FetchRange(ctx context.Context, from, to time.Time) ([]*analytics.PaymentRecord, error)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// DecodePayments reads a payments API body. Both {"data": [...]} and a bare
// array are accepted. A missing or non-array data field yields an empty
// list, and records that fail to decode are skipped. Only a body that is
// not JSON at all is an error.
func DecodePayments(body []byte) ([]*analytics.PaymentRecord, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: payments body is not valid JSON", ErrUpstream)
	}

	list := body
	if len(body) > 0 && body[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return []*analytics.PaymentRecord{}, nil
		}
		list = bytes.TrimSpace(env.Data)
	}
	if len(list) == 0 || list[0] != '[' {
		return []*analytics.PaymentRecord{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(list, &raw); err != nil {
		return []*analytics.PaymentRecord{}, nil
	}

	records := make([]*analytics.PaymentRecord, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		var rec analytics.PaymentRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, &rec)
	}
	if skipped > 0 {
		logrus.WithField("skipped", skipped).Warn("⚠️ Skipped malformed payment records")
	}
	return records, nil
}
