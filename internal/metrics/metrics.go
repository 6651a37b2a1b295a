package metrics

import (
	"sort"

	"github.com/jvilaplana/holdfolio/internal/models"
	"github.com/jvilaplana/holdfolio/internal/utils"
)

// Compute derives the dashboard metrics from the full investment set.
// Percentages are 0 for an empty (or zero-amount) portfolio rather than NaN.
func Compute(investments []models.Investment) models.DashboardMetrics {
	var total, economic, weighted float64
	for _, inv := range investments {
		total += inv.Amount
		if inv.IsEconomicActivity {
			economic += inv.Amount
		}
		weighted += inv.ReturnPercentage * inv.Amount
	}

	m := models.DashboardMetrics{
		TotalInvestments: total,
		TotalPositions:   len(investments),
	}

	if total > 0 {
		m.EconomicActivityPercentage = utils.RoundFloat(economic/total*100, 2)
		m.TotalReturn = utils.RoundFloat(weighted/total, 2)
	}

	return m
}

// BreakdownByCategory groups investments by sub category and splits each
// group by the economic-activity flag, the shape the category drill-down
// view renders. Categories come back sorted by total amount, descending.
func BreakdownByCategory(investments []models.Investment) []models.CategoryBreakdown {
	groups := make(map[string][]models.Investment)
	for _, inv := range investments {
		groups[inv.SubCategory] = append(groups[inv.SubCategory], inv)
	}

	breakdowns := make([]models.CategoryBreakdown, 0, len(groups))
	for category, group := range groups {
		breakdowns = append(breakdowns, Breakdown(category, group))
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Total != breakdowns[j].Total {
			return breakdowns[i].Total > breakdowns[j].Total
		}
		return breakdowns[i].Category < breakdowns[j].Category
	})

	return breakdowns
}

// Breakdown splits one category's investments into economic and
// non-economic subtotals.
func Breakdown(category string, investments []models.Investment) models.CategoryBreakdown {
	b := models.CategoryBreakdown{
		Category: category,
		Economic: models.CategorySplit{
			Investments: []models.Investment{},
		},
		NonEconomic: models.CategorySplit{
			Investments: []models.Investment{},
		},
	}

	for _, inv := range investments {
		b.Total += inv.Amount
		b.Positions++
		if inv.IsEconomicActivity {
			b.Economic.Total += inv.Amount
			b.Economic.Positions++
			b.Economic.Investments = append(b.Economic.Investments, inv)
		} else {
			b.NonEconomic.Total += inv.Amount
			b.NonEconomic.Positions++
			b.NonEconomic.Investments = append(b.NonEconomic.Investments, inv)
		}
	}

	return b
}
