package models

// SalesSummary is the revenue/cost/profit card over a subset of sales.
type SalesSummary struct {
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// StatusCounts counts sales by status over the full, unfiltered set.
type StatusCounts struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

// MonthlyRevenueBucket is one bar of the yearly revenue chart.
type MonthlyRevenueBucket struct {
	MonthKey  string  `json:"month_key"` // YYYY-MM
	Label     string  `json:"label"`     // e.g. "março de 2025"
	Total     float64 `json:"total"`
	BarHeight float64 `json:"bar_height"` // pixels
}

// DashboardSummary holds key metrics for the dashboard.
type DashboardSummary struct {
	Summary        SalesSummary           `json:"summary"`
	StatusCounts   StatusCounts           `json:"status_counts"`
	ClientCount    int                    `json:"client_count"`
	MonthlyRevenue []MonthlyRevenueBucket `json:"monthly_revenue"`
	UpcomingTrips  []Sale                 `json:"upcoming_trips"`
	Approvals      *ApprovalCounts        `json:"approvals,omitempty"`
}

// ReportRequestParams holds the dashboard query parameters.
type ReportRequestParams struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD, filters on sale date
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
	Year      int    `form:"year"`
	Reference string `form:"reference"` // YYYY-MM-DD, defaults to today
	Horizon   int    `form:"horizon"`   // days, defaults to 7
}

// Installment is one row of the card installment schedule.
type Installment struct {
	Number         int     `json:"installment_number"`
	Rate           float64 `json:"rate"` // percent
	Total          float64 `json:"total"`
	PerInstallment float64 `json:"per_installment_amount"`
}

// InstallmentQuote is a schedule plus its shareable text.
type InstallmentQuote struct {
	BaseAmount   float64       `json:"base_amount"`
	Installments []Installment `json:"installments"`
	Text         string        `json:"text"`
}
