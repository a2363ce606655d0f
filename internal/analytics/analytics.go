// Package analytics holds the pure derived views over the current part list:
// filtered listings and aggregate statistics. Nothing here is persisted or
// incrementally maintained; every call recomputes from the snapshot it is
// given.
package analytics

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Dnicola11/repuestos/internal/models"
)

// FilterParts applies the five filter predicates, ANDed together, preserving
// input order. A zero-valued Filters returns the list unchanged.
func FilterParts(parts []models.Part, f models.Filters) []models.Part {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filterCategory := f.Category != "" && f.Category != models.AllCategories

	return lo.Filter(parts, func(p models.Part, _ int) bool {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		if filterCategory && p.Category != f.Category {
			return false
		}
		if p.Price < f.MinPrice {
			return false
		}
		// A non-positive max bound means "no upper bound"; the screens send 0
		// for an empty max-price field.
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			return false
		}
		if p.Quantity < f.MinQuantity {
			return false
		}
		if f.LowStockOnly && !p.LowStock() {
			return false
		}
		return true
	})
}

// LowStockParts returns the parts at or below their own minimum-stock
// threshold, preserving input order.
func LowStockParts(parts []models.Part) []models.Part {
	return lo.Filter(parts, func(p models.Part, _ int) bool {
		return p.LowStock()
	})
}

// ComputeStatistics aggregates the given part list. On an empty list every
// numeric field is zero and TopCategory is "".
//
// TopCategory is the first category to reach the highest occurrence count
// while folding the list left to right. Under ties that choice is stable for
// a given list order but should not be assumed stable across implementations.
func ComputeStatistics(parts []models.Part) models.Statistics {
	stats := models.Statistics{
		TotalQuantity: lo.SumBy(parts, func(p models.Part) int { return p.Quantity }),
		TotalValue:    lo.SumBy(parts, func(p models.Part) float64 { return p.Price * float64(p.Quantity) }),
		LowStockCount: lo.CountBy(parts, func(p models.Part) bool { return p.LowStock() }),
	}

	if len(parts) > 0 {
		stats.AveragePrice = lo.SumBy(parts, func(p models.Part) float64 { return p.Price }) / float64(len(parts))
	}

	counts := make(map[string]int, len(parts))
	best := 0
	for _, p := range parts {
		counts[p.Category]++
		if counts[p.Category] > best {
			best = counts[p.Category]
			stats.TopCategory = p.Category
		}
	}

	return stats
}
