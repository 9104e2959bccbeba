// Package stats computes the order reports for backends that cannot push
// the aggregation down to the database.
package stats

import (
	"math"

	"github.com/junaidrashid-git/bistro-boss-api/models"
)

// Revenue sums the price of every payment.
func Revenue(payments []models.Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Price
	}
	return total
}

// CategoryBreakdown expands each payment's menu item ids, joins them against
// menu and groups the line items by category. Ids missing from menu are
// dropped. The result is in first-seen category order, which callers must not
// rely on.
func CategoryBreakdown(payments []models.Payment, menu []models.MenuItem) []models.CategoryStats {
	byID := make(map[string]models.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	index := make(map[string]int)
	result := make([]models.CategoryStats, 0)

	for _, p := range payments {
		for _, id := range p.MenuItemIDs {
			item, ok := byID[id]
			if !ok {
				continue
			}

			i, seen := index[item.Category]
			if !seen {
				i = len(result)
				index[item.Category] = i
				result = append(result, models.CategoryStats{Category: item.Category})
			}

			result[i].Count++
			result[i].Total += item.Price
		}
	}

	for i := range result {
		result[i].Total = Round2(result[i].Total)
	}

	return result
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
