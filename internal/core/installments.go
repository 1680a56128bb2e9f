package core

import (
	"fmt"
	"strings"

	"travel_crm_backend/internal/models"
)

// MaxInstallments is the longest card split offered.
const MaxInstallments = 12

// installmentRates maps the number of card installments to the surcharge, in percent.
var installmentRates = [MaxInstallments + 1]float64{
	1:  4.2,
	2:  6.09,
	3:  7.01,
	4:  7.91,
	5:  8.8,
	6:  9.67,
	7:  12.59,
	8:  13.42,
	9:  14.25,
	10: 15.06,
	11: 15.87,
	12: 16.66,
}

// InstallmentRate returns the surcharge percentage for n installments, or false
// when n is outside 1..MaxInstallments.
func InstallmentRate(n int) (float64, bool) {
	if n < 1 || n > MaxInstallments {
		return 0, false
	}
	return installmentRates[n], true
}

// ComputeInstallments builds the 1..12 installment schedule for base. Each row
// carries the surcharged total and that total split evenly across n payments.
func ComputeInstallments(base float64) ([]models.Installment, error) {
	if !isPositiveFinite(base) {
		return nil, ErrInvalidAmount
	}
	rows := make([]models.Installment, 0, MaxInstallments)
	for n := 1; n <= MaxInstallments; n++ {
		rate := installmentRates[n]
		total := base * (1 + rate/100)
		rows = append(rows, models.Installment{
			Number:         n,
			Rate:           rate,
			Total:          total,
			PerInstallment: total / float64(n),
		})
	}
	return rows, nil
}

// InstallmentText renders a schedule as the plain text agents paste into chat.
// The single-payment row shows the surcharged total; the others show the
// per-installment amount.
func InstallmentText(agency string, base float64, rows []models.Installment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌟 *%s* 🌟\n\n", agency)
	b.WriteString("💰 *Opções de Parcelamento no cartão de crédito*\n")
	fmt.Fprintf(&b, "Valor base: %s\n\n", FormatBRL(base))
	for _, r := range rows {
		if r.Number == 1 {
			fmt.Fprintf(&b, "💳 *1x* - %s\n", FormatBRL(r.Total))
			continue
		}
		fmt.Fprintf(&b, "💳 *%dx* de %s\n", r.Number, FormatBRL(r.PerInstallment))
	}
	fmt.Fprintf(&b, "\n*%s* - Transformando sonhos, em destinos! 🌍", agency)
	return b.String()
}
