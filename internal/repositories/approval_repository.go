package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travel_crm_backend/internal/models"
)

// ApprovalRepository defines the interface for approval request persistence.
type ApprovalRepository interface {
	Create(executor SQLExecutor, req *models.ApprovalRequest) (string, error)
	GetByID(id string) (*models.ApprovalRequest, error)
	GetByIDForUpdate(executor SQLExecutor, id string) (*models.ApprovalRequest, error)
	LatestForAccount(accountID string) (*models.ApprovalRequest, error)
	ListPending() ([]models.ApprovalRequest, error)
	ListAll() ([]models.ApprovalRequest, error)
	SaveDecision(executor SQLExecutor, req *models.ApprovalRequest) error
	CountByStatus() (models.ApprovalCounts, error)
}

type approvalRepository struct {
	db *sql.DB
}

// NewApprovalRepository creates a new instance of ApprovalRepository.
func NewApprovalRepository(db *sql.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalColumns = `id, account_id, email, name, status, requested_at, reviewed_at, reviewed_by, admin_notes`

func scanApproval(row scanner) (*models.ApprovalRequest, error) {
	req := &models.ApprovalRequest{}
	var reviewedAt sql.NullTime
	var reviewedBy, notes sql.NullString
	err := row.Scan(&req.ID, &req.AccountID, &req.Email, &req.Name, &req.Status, &req.RequestedAt,
		&reviewedAt, &reviewedBy, &notes)
	if err != nil {
		return nil, err
	}
	req.ReviewedAt = timePtr(reviewedAt)
	req.ReviewedBy = stringPtr(reviewedBy)
	req.AdminNotes = stringPtr(notes)
	return req, nil
}

// Create inserts a pending approval request.
func (r *approvalRepository) Create(executor SQLExecutor, req *models.ApprovalRequest) (string, error) {
	query := `INSERT INTO approval_requests (account_id, email, name, status, requested_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id`

	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now()
	}
	req.Status = models.ApprovalStatusPending

	err := executor.QueryRow(query, req.AccountID, req.Email, req.Name, req.Status, req.RequestedAt).Scan(&req.ID)
	if err != nil {
		return "", wrapWriteError(err, "creating approval request")
	}
	return req.ID, nil
}

func (r *approvalRepository) getOne(executor SQLExecutor, query string, arg interface{}) (*models.ApprovalRequest, error) {
	req, err := scanApproval(executor.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting approval request: %v", ErrDatabaseError, err)
	}
	return req, nil
}

// GetByID retrieves an approval request by its ID.
func (r *approvalRepository) GetByID(id string) (*models.ApprovalRequest, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.getOne(r.db, `SELECT `+approvalColumns+` FROM approval_requests WHERE id = $1`, id)
}

// GetByIDForUpdate locks the request row until the surrounding transaction ends.
func (r *approvalRepository) GetByIDForUpdate(executor SQLExecutor, id string) (*models.ApprovalRequest, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.getOne(executor, `SELECT `+approvalColumns+` FROM approval_requests WHERE id = $1 FOR UPDATE`, id)
}

// LatestForAccount returns the most recent request of an account.
func (r *approvalRepository) LatestForAccount(accountID string) (*models.ApprovalRequest, error) {
	return r.getOne(r.db, `SELECT `+approvalColumns+` FROM approval_requests
	                       WHERE account_id = $1 ORDER BY requested_at DESC LIMIT 1`, accountID)
}

func (r *approvalRepository) list(query string) ([]models.ApprovalRequest, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying approval requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reqs := []models.ApprovalRequest{}
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning approval request: %v", ErrDatabaseError, err)
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating approval requests: %v", ErrDatabaseError, err)
	}
	return reqs, nil
}

// ListPending returns pending requests, oldest first.
func (r *approvalRepository) ListPending() ([]models.ApprovalRequest, error) {
	return r.list(`SELECT ` + approvalColumns + ` FROM approval_requests WHERE status = 'pending' ORDER BY requested_at ASC`)
}

// ListAll returns every request, newest first.
func (r *approvalRepository) ListAll() ([]models.ApprovalRequest, error) {
	return r.list(`SELECT ` + approvalColumns + ` FROM approval_requests ORDER BY requested_at DESC`)
}

// SaveDecision persists the review fields. The WHERE clause only matches a
// request that is still pending, so a decision is written at most once.
func (r *approvalRepository) SaveDecision(executor SQLExecutor, req *models.ApprovalRequest) error {
	query := `UPDATE approval_requests
	          SET status = $1, reviewed_at = $2, reviewed_by = $3, admin_notes = $4, updated_at = $5
	          WHERE id = $6 AND status = 'pending'`

	result, err := executor.Exec(query, req.Status, req.ReviewedAt, req.ReviewedBy, nullString(req.AdminNotes), time.Now(), req.ID)
	if err != nil {
		return wrapWriteError(err, "saving decision for approval request "+req.ID)
	}
	return expectAffected(result, "saving decision for approval request "+req.ID)
}

// CountByStatus returns pending and processed totals.
func (r *approvalRepository) CountByStatus() (models.ApprovalCounts, error) {
	var c models.ApprovalCounts
	query := `SELECT COUNT(*) FILTER (WHERE status = 'pending'), COUNT(*) FILTER (WHERE status <> 'pending') FROM approval_requests`
	if err := r.db.QueryRow(query).Scan(&c.Pending, &c.Processed); err != nil {
		return c, fmt.Errorf("%w: counting approval requests: %v", ErrDatabaseError, err)
	}
	return c, nil
}
