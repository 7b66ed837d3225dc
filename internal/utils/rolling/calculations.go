// Package rolling computes day-over-day cumulative totals for report line
// items. Everything here is pure: no clock, no store, no mutation of inputs.
package rolling

import (
	"github.com/shopspring/decimal"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
)

// ComputeRolling merges today's line items with the baseline report's items.
// For each new item, the first baseline item with an exactly matching
// description supplies Prev (its Accumulated); with no match Prev is zero.
// Accumulated is always recomputed as Prev + Today. Baseline items missing
// from newItems are dropped: omission is the caller's decision. Output order
// follows newItems; duplicate descriptions resolve first-match-wins.
func ComputeRolling(newItems, previousItems []domain.LineItem) []domain.LineItem {
	if newItems == nil {
		return []domain.LineItem{}
	}
	result := make([]domain.LineItem, len(newItems))
	for i, item := range newItems {
		prev := decimal.Zero
		for _, p := range previousItems {
			if p.Description == item.Description {
				prev = p.Accumulated
				break
			}
		}
		item.Prev = prev
		item.Accumulated = prev.Add(item.Today)
		result[i] = item
	}
	return result
}
