package core

import (
	"sort"
	"time"

	"travel_crm_backend/internal/models"
)

// DefaultTripHorizonDays is how far ahead the upcoming-trips list looks.
const DefaultTripHorizonDays = 7

// UpcomingTrips selects the sales whose outbound or return date falls within
// [ref, ref+horizonDays] by calendar day, sorted by outbound date. Sales with no
// outbound date are never upcoming. Equal outbound dates keep input order.
func UpcomingTrips(sales []models.Sale, ref time.Time, horizonDays int) []models.Sale {
	if horizonDays <= 0 {
		horizonDays = DefaultTripHorizonDays
	}
	from := startOfDay(ref)
	to := endOfDay(from.AddDate(0, 0, horizonDays))

	type candidate struct {
		sale     models.Sale
		outbound time.Time
	}
	var picked []candidate
	for _, s := range sales {
		if s.OutboundDate == nil || *s.OutboundDate == "" {
			continue
		}
		outbound, err := ParseDate(*s.OutboundDate)
		if err != nil {
			continue
		}
		match := !outbound.Before(from) && !outbound.After(to)
		if !match && s.ReturnDate != nil && *s.ReturnDate != "" {
			if ret, err := ParseDate(*s.ReturnDate); err == nil {
				match = !ret.Before(from) && !ret.After(to)
			}
		}
		if match {
			picked = append(picked, candidate{sale: s, outbound: outbound})
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].outbound.Before(picked[j].outbound)
	})

	out := make([]models.Sale, len(picked))
	for i, c := range picked {
		out[i] = c.sale
	}
	return out
}
