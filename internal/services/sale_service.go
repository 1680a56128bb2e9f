package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Sale ---
var (
	ErrSaleNotFound   = errors.New("sale not found")
	ErrSaleValidation = errors.New("sale data validation error")
)

// --- Sale DTOs ---

// SaleRequest carries the main sale form. Cost and supplier are only accepted
// on creation; afterwards they change through UpdateFinancials.
type SaleRequest struct {
	ClientName    string   `json:"client_name" binding:"required"`
	Locator       *string  `json:"locator"`
	Amount        *float64 `json:"amount" binding:"required,gte=0"`
	PartySize     int      `json:"party_size" binding:"required,gte=1"`
	Origin        *string  `json:"origin"`
	Destination   *string  `json:"destination"`
	OutboundDate  *string  `json:"outbound_date" binding:"omitempty,calendar_date"`
	ReturnDate    *string  `json:"return_date" binding:"omitempty,calendar_date"`
	Carrier       *string  `json:"carrier"`
	PaymentMethod string   `json:"payment_method" binding:"required,payment_method"`
	SaleDate      *string  `json:"sale_date" binding:"omitempty,calendar_date"`
	Status        string   `json:"status" binding:"required,sale_status"`
	Notes         *string  `json:"notes"`
	Category      string   `json:"category" binding:"required,sale_category"`
	Cost          *float64 `json:"cost" binding:"omitempty,gte=0"`
	Supplier      *string  `json:"supplier"`
}

type UpdateFinancialsRequest struct {
	Cost     *float64 `json:"cost" binding:"omitempty,gte=0"`
	Supplier *string  `json:"supplier"`
}

type BulkDeleteRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm"`
}

// BulkDeleteResult reports how many sales were removed.
type BulkDeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// --- SaleService Interface ---
type SaleService interface {
	List(ownerID string, filters models.SaleFilters) ([]models.Sale, error)
	GetSaleByID(ownerID, saleID string) (*models.Sale, error)
	CreateSale(ownerID string, req SaleRequest) (*models.Sale, error)
	UpdateSale(ownerID, saleID string, req SaleRequest) (*models.Sale, error)
	UpdateFinancials(ownerID, saleID string, req UpdateFinancialsRequest) (*models.Sale, error)
	DeleteSale(ownerID, saleID string, confirmed bool) error
	BulkDelete(ownerID string, req BulkDeleteRequest) (*BulkDeleteResult, error)
}

type saleService struct {
	saleRepo   repositories.SaleRepository
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(saleRepo repositories.SaleRepository, clientRepo repositories.ClientRepository, db *sql.DB) SaleService {
	return &saleService{
		saleRepo:   saleRepo,
		clientRepo: clientRepo,
		db:         db,
	}
}

func optionalDate(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if !core.IsCalendarDate(*v) {
		return fmt.Errorf("%w: %s", ErrDateFormat, field)
	}
	return nil
}

// validateSale checks a fully assembled sale. A return date before the
// outbound date is accepted as entered.
func validateSale(sale *models.Sale) error {
	if utils.IsEmpty(sale.ClientName) {
		return fmt.Errorf("%w: client name cannot be empty", ErrSaleValidation)
	}
	if sale.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrSaleValidation)
	}
	if sale.PartySize < 1 {
		return fmt.Errorf("%w: party size must be at least 1", ErrSaleValidation)
	}
	if sale.Cost != nil && *sale.Cost < 0 {
		return fmt.Errorf("%w: cost cannot be negative", ErrSaleValidation)
	}
	if !models.IsValidSaleStatus(string(sale.Status)) {
		return fmt.Errorf("%w: invalid status '%s'", ErrSaleValidation, sale.Status)
	}
	if !models.IsValidSaleCategory(string(sale.Category)) {
		return fmt.Errorf("%w: invalid category '%s'", ErrSaleValidation, sale.Category)
	}
	if !models.IsValidPaymentMethod(string(sale.PaymentMethod)) {
		return fmt.Errorf("%w: invalid payment method '%s'", ErrSaleValidation, sale.PaymentMethod)
	}
	if !core.IsCalendarDate(sale.SaleDate) {
		return fmt.Errorf("%w: sale_date", ErrDateFormat)
	}
	if err := optionalDate("outbound_date", sale.OutboundDate); err != nil {
		return err
	}
	return optionalDate("return_date", sale.ReturnDate)
}

// applyMainFields copies the form onto sale, leaving cost and supplier alone.
// A missing sale date keeps the stored one.
func applyMainFields(sale *models.Sale, req SaleRequest) {
	sale.ClientName = strings.TrimSpace(req.ClientName)
	sale.Locator = utils.TrimOptional(req.Locator)
	if req.Amount != nil {
		sale.Amount = *req.Amount
	}
	sale.PartySize = req.PartySize
	sale.Origin = utils.TrimOptional(req.Origin)
	sale.Destination = utils.TrimOptional(req.Destination)
	sale.OutboundDate = utils.TrimOptional(req.OutboundDate)
	sale.ReturnDate = utils.TrimOptional(req.ReturnDate)
	sale.Carrier = utils.TrimOptional(req.Carrier)
	sale.PaymentMethod = models.PaymentMethod(req.PaymentMethod)
	if d := utils.TrimOptional(req.SaleDate); d != nil {
		sale.SaleDate = *d
	}
	sale.Status = models.SaleStatus(req.Status)
	sale.Notes = utils.TrimOptional(req.Notes)
	sale.Category = models.SaleCategory(req.Category)
}

func clientKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// List returns the owner's ledger after search and travel-window filtering.
// Sales with unreadable dates are left out and logged.
func (s *saleService) List(ownerID string, filters models.SaleFilters) ([]models.Sale, error) {
	sales, err := s.saleRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	filtered, anomalies, err := core.FilterSales(sales, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: travel window", ErrDateFormat)
	}
	for _, a := range anomalies {
		utils.LogWarn("Skipping sale with malformed date", map[string]interface{}{
			"sale_id": a.SaleID, "field": a.Field, "error": a.Err.Error(),
		})
	}

	clients, err := s.clientRepo.ListByOwner(ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for sales: %w", err)
	}
	byName := make(map[string]*models.Client, len(clients))
	for i := range clients {
		key := clientKey(clients[i].Name)
		if _, seen := byName[key]; !seen {
			byName[key] = &clients[i]
		}
	}
	for i := range filtered {
		filtered[i].Client = byName[clientKey(filtered[i].ClientName)]
	}
	return filtered, nil
}

func (s *saleService) GetSaleByID(ownerID, saleID string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ownerID, saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by ID: %w", err)
	}

	client, err := s.clientRepo.FindByName(ownerID, sale.ClientName)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve client of sale: %w", err)
	}
	sale.Client = client
	return sale, nil
}

// CreateSale records a new sale. Without an explicit supplier the carrier is
// taken as the supplier.
func (s *saleService) CreateSale(ownerID string, req SaleRequest) (*models.Sale, error) {
	sale := &models.Sale{OwnerID: ownerID, SaleDate: core.Today()}
	applyMainFields(sale, req)
	sale.Cost = req.Cost
	sale.Supplier = utils.TrimOptional(req.Supplier)
	if sale.Supplier == nil && sale.Carrier != nil {
		carrier := *sale.Carrier
		sale.Supplier = &carrier
	}
	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrSaleValidation)
	}
	if err := validateSale(sale); err != nil {
		return nil, err
	}

	if _, err := s.saleRepo.Create(s.db, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale in repository: %w", err)
	}
	return s.GetSaleByID(ownerID, sale.ID)
}

// UpdateSale replaces the main form fields. Cost and supplier are preserved.
func (s *saleService) UpdateSale(ownerID, saleID string, req SaleRequest) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ownerID, saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale for update: %w", err)
	}

	applyMainFields(sale, req)
	if err := validateSale(sale); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Update(s.db, sale); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return s.GetSaleByID(ownerID, saleID)
}

// UpdateFinancials sets cost and supplier, the second step of the sale workflow.
func (s *saleService) UpdateFinancials(ownerID, saleID string, req UpdateFinancialsRequest) (*models.Sale, error) {
	if req.Cost != nil && *req.Cost < 0 {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrSaleValidation)
	}
	if err := s.saleRepo.UpdateFinancials(s.db, ownerID, saleID, req.Cost, utils.TrimOptional(req.Supplier)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale financials: %w", err)
	}
	return s.GetSaleByID(ownerID, saleID)
}

func (s *saleService) DeleteSale(ownerID, saleID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.saleRepo.Delete(s.db, ownerID, saleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

// BulkDelete removes exactly the listed sales or none of them. The ids are
// checked and deleted inside one transaction.
func (s *saleService) BulkDelete(ownerID string, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	ids := dedupe(req.IDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no sales selected", ErrSaleValidation)
	}
	if !req.Confirm {
		return nil, ErrConfirmationRequired
	}
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
	}

	var deleted int64
	err := withTx(s.db, func(tx *sql.Tx) error {
		found, err := s.saleRepo.CountExisting(tx, ownerID, ids)
		if err != nil {
			return fmt.Errorf("failed to check selected sales: %w", err)
		}
		if found != len(ids) {
			return fmt.Errorf("%w: %d of %d selected sales do not exist", ErrSaleNotFound, len(ids)-found, len(ids))
		}
		deleted, err = s.saleRepo.DeleteMany(tx, ownerID, ids)
		if err != nil {
			return fmt.Errorf("failed to delete sales: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Sales deleted in bulk", map[string]interface{}{"owner_id": ownerID, "deleted": deleted})
	return &BulkDeleteResult{Deleted: deleted}, nil
}

// dedupe drops blanks and repeats, keeping first-seen order. UUIDs are
// compared in canonical lower-case form, as the store compares them.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if u, err := uuid.Parse(id); err == nil {
			id = u.String()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
