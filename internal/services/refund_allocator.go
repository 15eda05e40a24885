package services

import (
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// AllocateRefund maps refund line items to absolute refund amounts in cents,
// keyed by derived identifier. Multiple lines deriving the same identifier
// are summed. The input is never mutated; lines whose kind derives no
// identifier are skipped.
func AllocateRefund(lines []business.RefundLineItem) map[string]int64 {
	amounts := make(map[string]int64, len(lines))
	for _, line := range lines {
		key := line.Ref.RefundKey()
		if key == "" {
			continue
		}
		total := line.TotalCents
		if total < 0 {
			total = -total
		}
		amounts[key] += total
	}
	return amounts
}
