package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_crm_backend/internal/models"
)

// AccountRepository defines the interface for account-related database operations.
type AccountRepository interface {
	CreateAccount(executor SQLExecutor, account *models.Account, hashedPassword string) (string, error)
	FindByEmail(email string) (*models.Account, string, error) // Returns Account, HashedPassword, Error
	FindByID(id string) (*models.Account, error)
	SetApproval(executor SQLExecutor, id string, approved bool, approvedBy string, at time.Time) error
	CountAdmins() (int, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, name, email, password_hash, is_admin, is_approved, approved_by, approved_at, created_at, updated_at`

func scanAccount(row scanner) (*models.Account, error) {
	acc := &models.Account{}
	var approvedBy sql.NullString
	var approvedAt sql.NullTime
	err := row.Scan(
		&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.IsAdmin, &acc.IsApproved,
		&approvedBy, &approvedAt, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc.ApprovedBy = stringPtr(approvedBy)
	acc.ApprovedAt = timePtr(approvedAt)
	return acc, nil
}

// CreateAccount inserts a new account. Email is stored lower-cased so lookups
// are case-insensitive.
func (r *accountRepository) CreateAccount(executor SQLExecutor, account *models.Account, hashedPassword string) (string, error) {
	query := `INSERT INTO accounts (name, email, password_hash, is_admin, is_approved, approved_by, approved_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	now := time.Now()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.CreatedAt = now
	account.UpdatedAt = now

	var approvedAt sql.NullTime
	if account.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *account.ApprovedAt, Valid: true}
	}

	err := executor.QueryRow(query,
		account.Name, account.Email, hashedPassword, account.IsAdmin, account.IsApproved,
		nullString(account.ApprovedBy), approvedAt, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		return "", wrapWriteError(err, "creating account")
	}
	return account.ID, nil
}

// FindByEmail retrieves an account and its password hash by email.
func (r *accountRepository) FindByEmail(email string) (*models.Account, string, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	acc, err := scanAccount(r.db.QueryRow(query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding account by email: %v", ErrDatabaseError, err)
	}
	hash := acc.PasswordHash
	acc.PasswordHash = ""
	return acc, hash, nil
}

// FindByID retrieves an account by its ID.
func (r *accountRepository) FindByID(id string) (*models.Account, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	acc, err := scanAccount(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding account by ID %s: %v", ErrDatabaseError, id, err)
	}
	acc.PasswordHash = ""
	return acc, nil
}

// SetApproval records an administrator's decision on the account itself.
func (r *accountRepository) SetApproval(executor SQLExecutor, id string, approved bool, approvedBy string, at time.Time) error {
	query := `UPDATE accounts SET is_approved = $1, approved_by = $2, approved_at = $3, updated_at = $4 WHERE id = $5`

	var by sql.NullString
	var when sql.NullTime
	if approved {
		by = sql.NullString{String: approvedBy, Valid: true}
		when = sql.NullTime{Time: at, Valid: true}
	}

	result, err := executor.Exec(query, approved, by, when, time.Now(), id)
	if err != nil {
		return wrapWriteError(err, "updating approval of account "+id)
	}
	return expectAffected(result, "updating approval of account "+id)
}

// CountAdmins returns how many administrator accounts exist.
func (r *accountRepository) CountAdmins() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE is_admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting administrators: %v", ErrDatabaseError, err)
	}
	return n, nil
}
