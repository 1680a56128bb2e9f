package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_crm_backend/internal/models"
)

// ClientRepository defines the interface for client-related database operations.
// Every method is scoped to an owner: one account never sees another's clients.
type ClientRepository interface {
	ListByOwner(ownerID string, searchTerm *string) ([]models.Client, error)
	GetByID(ownerID, id string) (*models.Client, error)
	FindByName(ownerID, name string) (*models.Client, error)
	Create(executor SQLExecutor, client *models.Client) (string, error)
	Update(executor SQLExecutor, client *models.Client) error
	Delete(executor SQLExecutor, ownerID, id string) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, owner_id, name, email, phone, tax_id, address, to_char(registered_on, 'YYYY-MM-DD'), created_at, updated_at`

func scanClient(row scanner) (*models.Client, error) {
	client := &models.Client{}
	var email, address sql.NullString
	err := row.Scan(
		&client.ID, &client.OwnerID, &client.Name, &email, &client.Phone, &client.TaxID,
		&address, &client.RegisteredOn, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	client.Email = stringPtr(email)
	client.Address = stringPtr(address)
	return client, nil
}

// ListByOwner returns the owner's clients, newest first, optionally filtered by
// a case-insensitive match on name, email, phone or CPF.
func (r *clientRepository) ListByOwner(ownerID string, searchTerm *string) ([]models.Client, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + ` FROM clients WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" {
		searchPattern := "%" + strings.ToLower(strings.TrimSpace(*searchTerm)) + "%"
		queryBuilder.WriteString(` AND (LOWER(name) LIKE $2 OR LOWER(COALESCE(email, '')) LIKE $2 OR phone LIKE $2 OR tax_id LIKE $2)`)
		args = append(args, searchPattern)
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// GetByID retrieves one of the owner's clients.
func (r *clientRepository) GetByID(ownerID, id string) (*models.Client, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE owner_id = $1 AND id = $2`
	client, err := scanClient(r.db.QueryRow(query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %s: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// FindByName matches a sale's free-text client name against the roster.
func (r *clientRepository) FindByName(ownerID, name string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
	          WHERE owner_id = $1 AND LOWER(name) = LOWER($2)
	          ORDER BY created_at DESC LIMIT 1`
	client, err := scanClient(r.db.QueryRow(query, ownerID, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding client by name: %v", ErrDatabaseError, err)
	}
	return client, nil
}

// Create inserts a new client.
func (r *clientRepository) Create(executor SQLExecutor, client *models.Client) (string, error) {
	query := `INSERT INTO clients (owner_id, name, email, phone, tax_id, address, registered_on, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	client.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		client.OwnerID, client.Name, nullString(client.Email), client.Phone, client.TaxID,
		nullString(client.Address), client.RegisteredOn, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return "", wrapWriteError(err, "creating client")
	}
	return client.ID, nil
}

// Update overwrites the editable fields of a client.
func (r *clientRepository) Update(executor SQLExecutor, client *models.Client) error {
	if !validID(client.ID) {
		return ErrNotFound
	}
	query := `UPDATE clients SET
	            name = $1, email = $2, phone = $3, tax_id = $4, address = $5, registered_on = $6, updated_at = $7
	          WHERE owner_id = $8 AND id = $9`

	client.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		client.Name, nullString(client.Email), client.Phone, client.TaxID, nullString(client.Address),
		client.RegisteredOn, client.UpdatedAt, client.OwnerID, client.ID,
	)
	if err != nil {
		return wrapWriteError(err, "updating client "+client.ID)
	}
	return expectAffected(result, "updating client "+client.ID)
}

// Delete removes a client. Sales that mention the client by name are kept.
func (r *clientRepository) Delete(executor SQLExecutor, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := executor.Exec(`DELETE FROM clients WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client %s: %v", ErrDatabaseError, id, err)
	}
	return expectAffected(result, "deleting client "+id)
}
