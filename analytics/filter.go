package analytics

import "strings"

// IsCompleted reports whether a payment counts as a successful payment.
// Older checkouts stored "complete", newer ones "completed".
func IsCompleted(p *PaymentRecord) bool {
	if p == nil || p.ID == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case StatusCompleted, "complete":
		return true
	}
	return false
}

// FilterCompleted keeps the successful payments, in their original order.
// Malformed records are dropped rather than reported.
func FilterCompleted(records []*PaymentRecord) []*PaymentRecord {
	completed := make([]*PaymentRecord, 0, len(records))
	for _, p := range records {
		if IsCompleted(p) {
			completed = append(completed, p)
		}
	}
	return completed
}
