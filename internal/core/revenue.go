package core

import (
	"fmt"
	"time"

	"travel_crm_backend/internal/models"
)

const (
	// MaxBarHeight and MinBarHeight bound the revenue chart bars, in pixels.
	MaxBarHeight = 200.0
	MinBarHeight = 4.0
)

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthLabel renders a month of a year the way the chart axis shows it, e.g. "março de 2025".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s de %d", monthNames[month-1], year)
}

// MonthlyRevenue buckets the sales of year by the month of their sale date.
// The result always has twelve entries, January first. Sales from other years
// and sales with an unparsable sale date are left out.
func MonthlyRevenue(sales []models.Sale, year int) []models.MonthlyRevenueBucket {
	var cents [12]int64
	for _, s := range sales {
		d, err := ParseDate(s.SaleDate)
		if err != nil || d.Year() != year {
			continue
		}
		cents[d.Month()-1] += toCents(s.Amount)
	}

	buckets := make([]models.MonthlyRevenueBucket, 12)
	for i := range buckets {
		month := time.Month(i + 1)
		buckets[i] = models.MonthlyRevenueBucket{
			MonthKey: fmt.Sprintf("%04d-%02d", year, int(month)),
			Label:    MonthLabel(year, month),
			Total:    fromCents(cents[i]),
		}
	}
	ApplyBarHeights(buckets)
	return buckets
}

// ApplyBarHeights scales each bar to total/max of MaxBarHeight with a floor of
// MinBarHeight, so empty months still show a thin bar.
func ApplyBarHeights(buckets []models.MonthlyRevenueBucket) {
	peak := 0.0
	for _, b := range buckets {
		if b.Total > peak {
			peak = b.Total
		}
	}
	for i := range buckets {
		h := MinBarHeight
		if peak > 0 {
			h = buckets[i].Total / peak * MaxBarHeight
			if h < MinBarHeight {
				h = MinBarHeight
			}
		}
		buckets[i].BarHeight = h
	}
}
