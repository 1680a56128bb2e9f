package services

import (
	"fmt"
	"strings"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
)

// QuoteRequest DTO. Amount is the text the agent typed, e.g. "1.234,56".
type QuoteRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type InstallmentService interface {
	Quote(req QuoteRequest) (*models.InstallmentQuote, error)
}

type installmentService struct {
	agencyName string
}

// NewInstallmentService creates the calculator. agencyName heads the shareable text.
func NewInstallmentService(agencyName string) InstallmentService {
	if strings.TrimSpace(agencyName) == "" {
		agencyName = "AVIA DESTINOS"
	}
	return &installmentService{agencyName: agencyName}
}

func (s *installmentService) Quote(req QuoteRequest) (*models.InstallmentQuote, error) {
	base, err := core.ParseAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.Amount)
	}
	rows, err := core.ComputeInstallments(base)
	if err != nil {
		return nil, err
	}
	return &models.InstallmentQuote{
		BaseAmount:   base,
		Installments: rows,
		Text:         core.InstallmentText(s.agencyName, base, rows),
	}, nil
}
