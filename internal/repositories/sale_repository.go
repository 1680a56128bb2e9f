package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"travel_crm_backend/internal/models"
)

// SaleRepository defines the interface for sale-related database operations.
type SaleRepository interface {
	ListByOwner(ownerID string) ([]models.Sale, error)
	GetByID(ownerID, id string) (*models.Sale, error)
	Create(executor SQLExecutor, sale *models.Sale) (string, error)
	Update(executor SQLExecutor, sale *models.Sale) error
	UpdateFinancials(executor SQLExecutor, ownerID, id string, cost *float64, supplier *string) error
	Delete(executor SQLExecutor, ownerID, id string) error
	CountExisting(executor SQLExecutor, ownerID string, ids []string) (int, error)
	DeleteMany(executor SQLExecutor, ownerID string, ids []string) (int64, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Dates are DATE columns; reading them back as text keeps the YYYY-MM-DD form
// without going through a time zone.
const saleColumns = `id, owner_id, client_name, locator, amount, party_size, origin, destination,
	to_char(outbound_date, 'YYYY-MM-DD'), to_char(return_date, 'YYYY-MM-DD'), carrier, payment_method,
	to_char(sale_date, 'YYYY-MM-DD'), status, notes, category, cost, supplier, created_at, updated_at`

func scanSale(row scanner) (*models.Sale, error) {
	sale := &models.Sale{}
	var locator, origin, destination, outbound, returnDate, carrier, notes, supplier sql.NullString
	var cost sql.NullFloat64
	err := row.Scan(
		&sale.ID, &sale.OwnerID, &sale.ClientName, &locator, &sale.Amount, &sale.PartySize, &origin, &destination,
		&outbound, &returnDate, &carrier, &sale.PaymentMethod,
		&sale.SaleDate, &sale.Status, &notes, &sale.Category, &cost, &supplier, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sale.Locator = stringPtr(locator)
	sale.Origin = stringPtr(origin)
	sale.Destination = stringPtr(destination)
	sale.OutboundDate = stringPtr(outbound)
	sale.ReturnDate = stringPtr(returnDate)
	sale.Carrier = stringPtr(carrier)
	sale.Notes = stringPtr(notes)
	sale.Cost = floatPtr(cost)
	sale.Supplier = stringPtr(supplier)
	return sale, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// ListByOwner returns every sale of the owner, newest first. Filtering happens
// in the service so malformed dates can be reported instead of silently dropped.
func (r *saleRepository) ListByOwner(ownerID string) ([]models.Sale, error) {
	rows, err := r.db.Query(`SELECT `+saleColumns+` FROM sales WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, *sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale rows: %v", ErrDatabaseError, err)
	}
	return sales, nil
}

// GetByID retrieves one of the owner's sales.
func (r *saleRepository) GetByID(ownerID, id string) (*models.Sale, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	sale, err := scanSale(r.db.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE owner_id = $1 AND id = $2`, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %s: %v", ErrDatabaseError, id, err)
	}
	return sale, nil
}

// Create inserts a new sale including its financial fields.
func (r *saleRepository) Create(executor SQLExecutor, sale *models.Sale) (string, error) {
	query := `INSERT INTO sales (owner_id, client_name, locator, amount, party_size, origin, destination,
	            outbound_date, return_date, carrier, payment_method, sale_date, status, notes, category,
	            cost, supplier, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`

	currentTime := time.Now()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = currentTime
	}
	sale.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		sale.OwnerID, sale.ClientName, nullString(sale.Locator), sale.Amount, sale.PartySize,
		nullString(sale.Origin), nullString(sale.Destination), nullString(sale.OutboundDate), nullString(sale.ReturnDate),
		nullString(sale.Carrier), sale.PaymentMethod, sale.SaleDate, sale.Status, nullString(sale.Notes), sale.Category,
		nullFloat(sale.Cost), nullString(sale.Supplier), sale.CreatedAt, sale.UpdatedAt,
	).Scan(&sale.ID)
	if err != nil {
		return "", wrapWriteError(err, "creating sale")
	}
	return sale.ID, nil
}

// Update overwrites the main form fields. Cost and supplier are left alone;
// they change only through UpdateFinancials.
func (r *saleRepository) Update(executor SQLExecutor, sale *models.Sale) error {
	if !validID(sale.ID) {
		return ErrNotFound
	}
	query := `UPDATE sales SET
	            client_name = $1, locator = $2, amount = $3, party_size = $4, origin = $5, destination = $6,
	            outbound_date = $7, return_date = $8, carrier = $9, payment_method = $10, sale_date = $11,
	            status = $12, notes = $13, category = $14, updated_at = $15
	          WHERE owner_id = $16 AND id = $17`

	sale.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		sale.ClientName, nullString(sale.Locator), sale.Amount, sale.PartySize, nullString(sale.Origin),
		nullString(sale.Destination), nullString(sale.OutboundDate), nullString(sale.ReturnDate), nullString(sale.Carrier),
		sale.PaymentMethod, sale.SaleDate, sale.Status, nullString(sale.Notes), sale.Category, sale.UpdatedAt,
		sale.OwnerID, sale.ID,
	)
	if err != nil {
		return wrapWriteError(err, "updating sale "+sale.ID)
	}
	return expectAffected(result, "updating sale "+sale.ID)
}

// UpdateFinancials sets cost and supplier. A nil value clears the field.
func (r *saleRepository) UpdateFinancials(executor SQLExecutor, ownerID, id string, cost *float64, supplier *string) error {
	if !validID(id) {
		return ErrNotFound
	}
	query := `UPDATE sales SET cost = $1, supplier = $2, updated_at = $3 WHERE owner_id = $4 AND id = $5`
	result, err := executor.Exec(query, nullFloat(cost), nullString(supplier), time.Now(), ownerID, id)
	if err != nil {
		return wrapWriteError(err, "updating financials of sale "+id)
	}
	return expectAffected(result, "updating financials of sale "+id)
}

// Delete removes a single sale.
func (r *saleRepository) Delete(executor SQLExecutor, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := executor.Exec(`DELETE FROM sales WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("%w: deleting sale %s: %v", ErrDatabaseError, id, err)
	}
	return expectAffected(result, "deleting sale "+id)
}

// CountExisting counts how many of ids belong to the owner. Rows are locked so a
// following DeleteMany in the same transaction sees the same set.
func (r *saleRepository) CountExisting(executor SQLExecutor, ownerID string, ids []string) (int, error) {
	rows, err := executor.Query(`SELECT id FROM sales WHERE owner_id = $1 AND id = ANY($2::uuid[]) FOR UPDATE`, ownerID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("%w: checking sale ids: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: iterating sale ids: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// DeleteMany removes exactly the listed sales in one statement.
func (r *saleRepository) DeleteMany(executor SQLExecutor, ownerID string, ids []string) (int64, error) {
	result, err := executor.Exec(`DELETE FROM sales WHERE owner_id = $1 AND id = ANY($2::uuid[])`, ownerID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("%w: deleting sales: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for bulk delete: %v", ErrDatabaseError, err)
	}
	return affected, nil
}
