package core

import (
	"fmt"
	"strings"

	"travel_crm_backend/internal/models"
)

// DateAnomaly records a sale whose stored date could not be parsed. Filtering
// skips it and hands the anomaly back for the caller to log.
type DateAnomaly struct {
	SaleID string
	Field  string
	Err    error
}

func (a DateAnomaly) Error() string {
	return fmt.Sprintf("sale %s: %s: %v", a.SaleID, a.Field, a.Err)
}

func (a DateAnomaly) Unwrap() error { return a.Err }

// FilterBySaleDate keeps the sales whose sale date lies in [start, end] by
// calendar day. Blank bounds leave the set untouched.
func FilterBySaleDate(sales []models.Sale, start, end string) ([]models.Sale, []DateAnomaly, error) {
	w, err := parseWindow(start, end)
	if err != nil {
		return nil, nil, err
	}
	if w.open() {
		return sales, nil, nil
	}

	var anomalies []DateAnomaly
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		d, err := ParseDate(s.SaleDate)
		if err != nil {
			anomalies = append(anomalies, DateAnomaly{SaleID: s.ID, Field: "sale_date", Err: err})
			continue
		}
		if w.contains(d) {
			out = append(out, s)
		}
	}
	return out, anomalies, nil
}

// MatchesSearch is the ledger's free-text match over client name, locator,
// origin, destination and the category label. Case-insensitive.
func MatchesSearch(s models.Sale, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{s.ClientName, s.Category.Label()}
	for _, p := range []*string{s.Locator, s.Origin, s.Destination} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// FilterSales applies the ledger search and travel-date window. Sales without
// an outbound date are not constrained by the travel window.
func FilterSales(sales []models.Sale, f models.SaleFilters) ([]models.Sale, []DateAnomaly, error) {
	if _, err := parseWindow(f.TravelStart, f.TravelEnd); err != nil {
		return nil, nil, err
	}

	var anomalies []DateAnomaly
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if !MatchesSearch(s, f.Search) {
			continue
		}
		if s.OutboundDate != nil && *s.OutboundDate != "" {
			ret := ""
			if s.ReturnDate != nil {
				ret = *s.ReturnDate
			}
			ok, err := InRangeChecked(*s.OutboundDate, f.TravelStart, f.TravelEnd, ret)
			if err != nil {
				anomalies = append(anomalies, DateAnomaly{SaleID: s.ID, Field: "travel_dates", Err: err})
				continue
			}
			if !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out, anomalies, nil
}
