package core

import "travel_crm_backend/internal/models"

// Summarize reduces a subset of sales to revenue, count, cost and profit.
// A missing cost counts as zero.
func Summarize(sales []models.Sale) models.SalesSummary {
	var revenue, cost int64
	for _, s := range sales {
		revenue += toCents(s.Amount)
		if s.Cost != nil {
			cost += toCents(*s.Cost)
		}
	}
	return models.SalesSummary{
		Revenue: fromCents(revenue),
		Count:   len(sales),
		Cost:    fromCents(cost),
		Profit:  fromCents(revenue - cost),
	}
}

// CountByStatus counts sales per status.
func CountByStatus(sales []models.Sale) models.StatusCounts {
	var c models.StatusCounts
	for _, s := range sales {
		switch s.Status {
		case models.SaleStatusConfirmed:
			c.Confirmed++
		case models.SaleStatusPending:
			c.Pending++
		case models.SaleStatusCancelled:
			c.Cancelled++
		}
	}
	return c
}
