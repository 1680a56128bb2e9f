package services

import (
	"errors"
	"fmt"
	"time"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/pkg/utils"

	"golang.org/x/sync/errgroup"
)

var ErrDashboardValidation = errors.New("dashboard parameter validation error")

// DashboardService aggregates the owner's ledger into the dashboard cards.
type DashboardService interface {
	Overview(ownerID string, params models.ReportRequestParams) (*models.DashboardSummary, error)
	MonthlyRevenue(ownerID string, year int) ([]models.MonthlyRevenueBucket, error)
	UpcomingTrips(ownerID string, reference string, horizonDays int) ([]models.Sale, error)
}

type dashboardService struct {
	saleRepo    repositories.SaleRepository
	clientRepo  repositories.ClientRepository
	approvalSvc ApprovalService
	now         func() time.Time
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(saleRepo repositories.SaleRepository, clientRepo repositories.ClientRepository, approvalSvc ApprovalService) DashboardService {
	return &dashboardService{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		approvalSvc: approvalSvc,
		now:         time.Now,
	}
}

func (s *dashboardService) referenceDay(reference string) (time.Time, error) {
	if reference == "" {
		return s.now(), nil
	}
	t, err := core.ParseDate(reference)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reference", ErrDateFormat)
	}
	return t, nil
}

func (s *dashboardService) yearOrCurrent(year int) (int, error) {
	if year == 0 {
		return s.now().Year(), nil
	}
	if year < 1900 || year > 9999 {
		return 0, fmt.Errorf("%w: year %d is out of range", ErrDashboardValidation, year)
	}
	return year, nil
}

// Overview loads sales, clients and (for administrators) approval counts in
// parallel. The sales summary covers the sale-date window; status counts always
// cover the whole ledger.
func (s *dashboardService) Overview(ownerID string, params models.ReportRequestParams) (*models.DashboardSummary, error) {
	year, err := s.yearOrCurrent(params.Year)
	if err != nil {
		return nil, err
	}
	ref, err := s.referenceDay(params.Reference)
	if err != nil {
		return nil, err
	}

	var (
		sales     []models.Sale
		clients   []models.Client
		approvals *models.ApprovalCounts
		g         errgroup.Group
	)
	g.Go(func() error {
		var err error
		sales, err = s.saleRepo.ListByOwner(ownerID)
		if err != nil {
			return fmt.Errorf("failed to load sales for dashboard: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		clients, err = s.clientRepo.ListByOwner(ownerID, nil)
		if err != nil {
			return fmt.Errorf("failed to load clients for dashboard: %w", err)
		}
		return nil
	})
	if s.approvalSvc != nil {
		g.Go(func() error {
			counts, err := s.approvalSvc.Counts(ownerID)
			if errors.Is(err, ErrApprovalUnauthorized) {
				return nil
			}
			if err != nil {
				return err
			}
			approvals = &counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inWindow, anomalies, err := core.FilterBySaleDate(sales, params.StartDate, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: sale date window", ErrDateFormat)
	}
	for _, a := range anomalies {
		utils.LogWarn("Dashboard skipped sale with malformed date", map[string]interface{}{
			"sale_id": a.SaleID, "field": a.Field, "error": a.Err.Error(),
		})
	}

	return &models.DashboardSummary{
		Summary:        core.Summarize(inWindow),
		StatusCounts:   core.CountByStatus(sales),
		ClientCount:    len(clients),
		MonthlyRevenue: core.MonthlyRevenue(sales, year),
		UpcomingTrips:  core.UpcomingTrips(sales, ref, params.Horizon),
		Approvals:      approvals,
	}, nil
}

func (s *dashboardService) MonthlyRevenue(ownerID string, year int) ([]models.MonthlyRevenueBucket, error) {
	year, err := s.yearOrCurrent(year)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for revenue chart: %w", err)
	}
	return core.MonthlyRevenue(sales, year), nil
}

func (s *dashboardService) UpcomingTrips(ownerID string, reference string, horizonDays int) ([]models.Sale, error) {
	ref, err := s.referenceDay(reference)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for upcoming trips: %w", err)
	}
	return core.UpcomingTrips(sales, ref, horizonDays), nil
}
